package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchQuery struct {
	Q    string `form:"q"`
	Tag  string `form:"tag"`
	Sort string `form:"sort,default=relevance" binding:"oneof=relevance recent"`
}

// Search finds questions by keyword and/or tag
func (h *SearchHandler) Search(c *gin.Context) {
	var input searchQuery
	if err := c.ShouldBindQuery(&input); err != nil {
		respondValidation(c, err)
		return
	}
	page, ok := bindPage(c, 50)
	if !ok {
		return
	}

	results, err := h.search.Search(c.Request.Context(), services.SearchQuery{
		Q:     input.Q,
		Tag:   input.Tag,
		Sort:  input.Sort,
		Skip:  page.Skip,
		Limit: page.Limit,
	})
	if err != nil {
		respondError(c, err, "No results")
		return
	}

	c.JSON(http.StatusOK, results)
}

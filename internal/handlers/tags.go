package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type TagHandler struct {
	tags *services.TagService
}

func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Tag not found")
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var input models.TagCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Tag not found")
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	tag, err := h.tags.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Tag not found")
		return
	}

	c.JSON(http.StatusOK, tag)
}

// GetTagQuestions lists questions carrying the tag, newest first
func (h *TagHandler) GetTagQuestions(c *gin.Context) {
	page, ok := bindPage(c, 50)
	if !ok {
		return
	}

	questions, err := h.tags.Questions(c.Request.Context(), c.Param("name"), page.Skip, page.Limit)
	if err != nil {
		respondError(c, err, "Tag not found")
		return
	}

	c.JSON(http.StatusOK, questions)
}

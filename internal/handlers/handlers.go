package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	User     *UserHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Vote     *VoteHandler
	Tag      *TagHandler
	Search   *SearchHandler
	Stats    *StatsHandler
	Health   *HealthHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db database.Service, log logrus.FieldLogger) *Handler {
	gormDB := db.GetDB()

	return &Handler{
		User:     NewUserHandler(services.NewUserService(gormDB, log)),
		Question: NewQuestionHandler(services.NewQuestionService(gormDB, log)),
		Answer:   NewAnswerHandler(services.NewAnswerService(gormDB, log)),
		Vote:     NewVoteHandler(services.NewVoteService(gormDB, log)),
		Tag:      NewTagHandler(services.NewTagService(gormDB, log)),
		Search:   NewSearchHandler(services.NewSearchService(gormDB)),
		Stats:    NewStatsHandler(services.NewStatsService(gormDB)),
		Health:   NewHealthHandler(db),
	}
}

const defaultPageSize = 10

type pageQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=10" binding:"min=1"`
}

// bindPage reads skip/limit and rejects limits above maxLimit
func bindPage(c *gin.Context, maxLimit int) (pageQuery, bool) {
	q := pageQuery{Limit: defaultPageSize}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondValidation(c, err)
		return q, false
	}
	if q.Limit > maxLimit {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Detail: fmt.Sprintf("limit must be between 1 and %d", maxLimit),
		})
		return q, false
	}
	return q, true
}

func extractUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Detail: "Not authenticated"})
		return "", false
	}
	return userID, true
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
}

// respondError translates service errors into HTTP responses. Unauthorized
// mutations share the not-found response so existence is not leaked.
func respondError(c *gin.Context, err error, notFound string) {
	var reqErr *services.RequestError
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: notFound})
	case errors.As(err, &reqErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: reqErr.Msg})
	case errors.Is(err, services.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Detail: "Resource already exists"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Internal server error"})
	}
}

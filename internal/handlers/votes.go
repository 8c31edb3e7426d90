package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// CreateVote handles upvoting/downvoting a question or answer
func (h *VoteHandler) CreateVote(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input models.VoteCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		if invalidVoteType(err) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Vote type must be -1 or 1"})
			return
		}
		respondValidation(c, err)
		return
	}

	result, err := h.votes.Vote(c.Request.Context(), input, userID)
	if err != nil {
		var reqErr *services.RequestError
		if errors.As(err, &reqErr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: reqErr.Msg})
			return
		}
		respondError(c, err, "Vote target not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetQuestionVotes returns vote statistics for a question
func (h *VoteHandler) GetQuestionVotes(c *gin.Context) {
	h.summary(c, services.TargetQuestion, c.Param("qid"), "Question not found")
}

// GetAnswerVotes returns vote statistics for an answer
func (h *VoteHandler) GetAnswerVotes(c *gin.Context) {
	h.summary(c, services.TargetAnswer, c.Param("aid"), "Answer not found")
}

func (h *VoteHandler) summary(c *gin.Context, targetType, id, notFound string) {
	summary, err := h.votes.Summary(c.Request.Context(), targetType, id)
	if err != nil {
		respondError(c, err, notFound)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func invalidVoteType(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == "VoteType" {
			return true
		}
	}
	return false
}

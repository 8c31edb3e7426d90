package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type AnswerHandler struct {
	answers *services.AnswerService
}

func NewAnswerHandler(answers *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

// CreateAnswer posts an answer to a question
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input models.AnswerCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), input, userID)
	if err != nil {
		respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusCreated, answer)
}

func (h *AnswerHandler) GetAnswer(c *gin.Context) {
	answer, err := h.answers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Answer not found")
		return
	}

	c.JSON(http.StatusOK, answer)
}

// UpdateAnswer updates an answer (owner only)
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input models.AnswerUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	answer, err := h.answers.Update(c.Request.Context(), c.Param("id"), input, userID)
	if err != nil {
		respondError(c, err, "Answer not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, answer)
}

// DeleteAnswer deletes an answer and its votes (owner only)
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	if err := h.answers.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Answer not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Answer deleted successfully"})
}

// GetQuestionAnswers returns all answers for a question
func (h *AnswerHandler) GetQuestionAnswers(c *gin.Context) {
	answers, err := h.answers.ListByQuestion(c.Request.Context(), c.Param("qid"))
	if err != nil {
		respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, answers)
}

// GetUserAnswers returns answers by a specific user
func (h *AnswerHandler) GetUserAnswers(c *gin.Context) {
	page, ok := bindPage(c, 100)
	if !ok {
		return
	}

	answers, err := h.answers.ListByUser(c.Request.Context(), c.Param("uid"), page.Skip, page.Limit)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, answers)
}

// AcceptAnswer marks an answer as accepted (question owner only)
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	if err := h.answers.Accept(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Answer not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Answer accepted successfully"})
}

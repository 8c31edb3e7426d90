package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// CreateQuestion creates a new question owned by the caller
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input models.QuestionCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	question, err := h.questions.Create(c.Request.Context(), input, userID)
	if err != nil {
		respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion returns a question with its answers and counts the view
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.questions.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, question)
}

// GetQuestions returns the most recent questions
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, ok := bindPage(c, 50)
	if !ok {
		return
	}

	questions, err := h.questions.ListRecent(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetUserQuestions returns all questions by a specific user
func (h *QuestionHandler) GetUserQuestions(c *gin.Context) {
	page, ok := bindPage(c, 50)
	if !ok {
		return
	}

	questions, err := h.questions.ListByUser(c.Request.Context(), c.Param("uid"), page.Skip, page.Limit)
	if err != nil {
		respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion updates an existing question (owner only)
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input models.QuestionUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	question, err := h.questions.Update(c.Request.Context(), c.Param("id"), input, userID)
	if err != nil {
		respondError(c, err, "Question not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question (owner only)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Question not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Question deleted successfully"})
}

// SolveQuestion marks the caller's question as solved
func (h *QuestionHandler) SolveQuestion(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	if err := h.questions.MarkSolved(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Question not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Question marked as solved"})
}

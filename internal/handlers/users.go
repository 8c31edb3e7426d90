package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser registers a new user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input models.UserCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	page, ok := bindPage(c, 100)
	if !ok {
		return
	}

	users, err := h.users.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser returns a user's profile
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser edits the caller's own profile
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input models.UserUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), input, callerID)
	if err != nil {
		respondError(c, err, "User not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := extractUserID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		respondError(c, err, "User not found or unauthorized")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "User deleted successfully"})
}

// GetUserStats returns question/answer counts and reputation
func (h *UserHandler) GetUserStats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, stats)
}

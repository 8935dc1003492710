package handler

import (
	"net/http"

	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/reference"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type updateUserRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.fail(c, err, "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	user, err := h.Users.Create(c.Request.Context(), middleware.Actor(c), reference.CreateUserInput(req))
	if err != nil {
		h.fail(c, err, "Error creating user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	user, err := h.Users.Update(c.Request.Context(), middleware.Actor(c), id, reference.UpdateUserInput(req))
	if err != nil {
		h.fail(c, err, "Error updating user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.fail(c, err, "Error deleting user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

package handler

import (
	"net/http"

	"complaintdesk/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login exchanges credentials for a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "Error signing in")
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.fail(c, err, "Failed to create token")
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

package handler

import (
	"net/http"

	"complaintdesk/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Suggest returns the actor's previous values for a complaint form field.
func (h *Handler) Suggest(c *gin.Context) {
	field := c.Query("field")
	values, err := h.Suggestions.Suggest(c.Request.Context(), middleware.Actor(c), field, c.Query("q"))
	if err != nil {
		h.fail(c, err, "Error fetching suggestions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": field, "suggestions": values})
}

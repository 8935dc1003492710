package handler

import (
	"net/http"

	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/reference"

	"github.com/gin-gonic/gin"
)

type nameRequest struct {
	Name string `json:"name"`
}

type complaintTypeRequest struct {
	Name  string `json:"name"`
	Queue string `json:"queue"`
}

// Locations lists the buildings and floors offered on the complaint form.
func (h *Handler) Locations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"buildings": config.Buildings, "floors": config.Floors})
}

func (h *Handler) ListAreas(c *gin.Context) {
	areas, err := h.Reference.ListAreas(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.fail(c, err, "Error fetching areas")
		return
	}
	c.JSON(http.StatusOK, areas)
}

func (h *Handler) CreateArea(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid area name")
		return
	}
	area, err := h.Reference.CreateArea(c.Request.Context(), middleware.Actor(c), req.Name)
	if err != nil {
		h.fail(c, err, "Error adding area")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Area added successfully", "area": area})
}

func (h *Handler) UpdateArea(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid area name")
		return
	}
	area, err := h.Reference.RenameArea(c.Request.Context(), middleware.Actor(c), id, req.Name)
	if err != nil {
		h.fail(c, err, "Error updating area")
		return
	}
	c.JSON(http.StatusOK, area)
}

func (h *Handler) DeleteArea(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.Reference.DeleteArea(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.fail(c, err, "Error deleting area")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Area deleted successfully"})
}

func (h *Handler) ListComplaintTypes(c *gin.Context) {
	types, err := h.Reference.ListComplaintTypes(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.fail(c, err, "Error fetching complaint types")
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *Handler) CreateComplaintType(c *gin.Context) {
	var req complaintTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid complaint type name")
		return
	}
	ct, err := h.Reference.CreateComplaintType(c.Request.Context(), middleware.Actor(c), reference.ComplaintTypeInput{
		Name:  req.Name,
		Queue: req.Queue,
	})
	if err != nil {
		h.fail(c, err, "Error adding complaint type")
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *Handler) UpdateComplaintType(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req complaintTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid complaint type name")
		return
	}
	ct, err := h.Reference.UpdateComplaintType(c.Request.Context(), middleware.Actor(c), id, reference.ComplaintTypeInput{
		Name:  req.Name,
		Queue: req.Queue,
	})
	if err != nil {
		h.fail(c, err, "Error updating complaint type")
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *Handler) DeleteComplaintType(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.Reference.DeleteComplaintType(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.fail(c, err, "Error deleting complaint type")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint type deleted successfully"})
}

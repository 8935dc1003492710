package handler

import (
	"net/http"

	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

type complaintRequest struct {
	Date            string `json:"date"`
	Building        string `json:"building"`
	Floor           string `json:"floor"`
	AreaID          flexID `json:"area_id"`
	ComplaintTypeID flexID `json:"complaint_type_id"`
	Details         string `json:"details"`
}

type resolveRequest struct {
	ResolutionDate string `json:"resolution_date"`
	Action         string `json:"action"`
}

type seenRequest struct {
	ComplaintID flexID `json:"complaint_id"`
}

type noComplaintRequest struct {
	Building string `json:"building"`
	Date     string `json:"date"`
}

func (h *Handler) ListComplaints(c *gin.Context) {
	views, err := h.Complaints.List(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.fail(c, err, "Error fetching complaints")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) ListActionComplaints(c *gin.Context) {
	views, err := h.Complaints.ListAction(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.fail(c, err, "Error fetching complaints")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "All fields are required")
		return
	}

	view, err := h.Complaints.Submit(c.Request.Context(), middleware.Actor(c), complaint.SubmitInput{
		Building:        req.Building,
		Floor:           req.Floor,
		AreaID:          uint(req.AreaID),
		ComplaintTypeID: uint(req.ComplaintTypeID),
		Details:         req.Details,
		Date:            req.Date,
	})
	if err != nil {
		h.fail(c, err, "Error submitting complaint")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateComplaint edits the fields of the actor's own complaint.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "All fields are required")
		return
	}

	view, err := h.Complaints.Update(c.Request.Context(), middleware.Actor(c), id, complaint.UpdateInput{
		Date:            req.Date,
		Building:        req.Building,
		Floor:           req.Floor,
		AreaID:          uint(req.AreaID),
		ComplaintTypeID: uint(req.ComplaintTypeID),
		Details:         req.Details,
	})
	if err != nil {
		h.fail(c, err, "Error updating complaint")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ResolveComplaint records the action taken and closes the complaint.
func (h *Handler) ResolveComplaint(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "resolution_date and action are required")
		return
	}

	view, err := h.Complaints.Resolve(c.Request.Context(), middleware.Actor(c), id, complaint.ResolveInput{
		ResolutionDate: req.ResolutionDate,
		Action:         req.Action,
	})
	if err != nil {
		h.fail(c, err, "Error updating complaint")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteComplaint(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.Complaints.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.fail(c, err, "Error deleting complaint")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}

func (h *Handler) MarkSeen(c *gin.Context) {
	var req seenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ComplaintID == 0 {
		h.badRequest(c, "complaint_id is required")
		return
	}
	seen, err := h.Complaints.MarkSeen(c.Request.Context(), middleware.Actor(c), uint(req.ComplaintID))
	if err != nil {
		h.fail(c, err, "Error adding complaint seen")
		return
	}
	c.JSON(http.StatusOK, seen)
}

func (h *Handler) UnmarkSeen(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.Complaints.UnmarkSeen(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.fail(c, err, "Error removing complaint seen")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint seen removed successfully"})
}

func (h *Handler) SubmitNoComplaint(c *gin.Context) {
	var req noComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "All fields are required")
		return
	}
	view, err := h.Complaints.SubmitNoComplaint(c.Request.Context(), middleware.Actor(c), complaint.NoComplaintInput{
		Building: req.Building,
		Date:     req.Date,
	})
	if err != nil {
		h.fail(c, err, "Error submitting complaint")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateNoComplaint(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req noComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "date and building are required")
		return
	}
	view, err := h.Complaints.UpdateNoComplaint(c.Request.Context(), middleware.Actor(c), id, complaint.NoComplaintInput{
		Building: req.Building,
		Date:     req.Date,
	})
	if err != nil {
		h.fail(c, err, "Error updating complaint")
		return
	}
	c.JSON(http.StatusOK, view)
}

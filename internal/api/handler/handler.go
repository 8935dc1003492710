// Package handler exposes the services over JSON HTTP endpoints.
package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/livefeed"
	"complaintdesk/backend/internal/reference"
	"complaintdesk/backend/internal/suggestion"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler holds the services behind every route.
type Handler struct {
	Complaints  *complaint.Service
	Reference   *reference.Service
	Users       *reference.UserService
	Suggestions *suggestion.Service
	Reports     *analysis.Aggregator
	Hub         *livefeed.ManagerService
	Tokens      *middleware.Tokens
	Log         logrus.FieldLogger
}

// Register mounts the routes on r. Everything except login and the health
// check requires a session.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	r.POST("/auth/login", h.Login)

	api := r.Group("/", middleware.Auth(h.Tokens, h.Users.Storage))

	api.GET("/locations", h.Locations)

	api.GET("/areas", h.ListAreas)
	api.POST("/areas", h.CreateArea)
	api.PUT("/areas/:id", h.UpdateArea)
	api.DELETE("/areas/:id", h.DeleteArea)

	api.GET("/complaint-types", h.ListComplaintTypes)
	api.POST("/complaint-types", h.CreateComplaintType)
	api.PUT("/complaint-types/:id", h.UpdateComplaintType)
	api.DELETE("/complaint-types/:id", h.DeleteComplaintType)

	api.GET("/complaints", h.ListComplaints)
	api.POST("/complaints", h.SubmitComplaint)
	api.PUT("/complaints/:id", h.UpdateComplaint)
	api.PATCH("/complaints/:id", h.ResolveComplaint)
	api.DELETE("/complaints/:id", h.DeleteComplaint)
	api.GET("/complaintaction", h.ListActionComplaints)

	api.POST("/complaint-seen", h.MarkSeen)
	api.DELETE("/complaint-seen/:id", h.UnmarkSeen)

	api.POST("/no-complaint", h.SubmitNoComplaint)
	api.PUT("/no-complaint/:id", h.UpdateNoComplaint)

	api.GET("/dashboard", h.Dashboard)
	api.GET("/reports", h.Report)
	api.GET("/reports/export", h.ExportReport)

	api.GET("/users", h.ListUsers)
	api.POST("/users", h.CreateUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.DELETE("/users/:id", h.DeleteUser)

	api.GET("/suggestions", h.Suggest)
	api.GET("/ws", h.ServeWebSocket)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes err as {error: message}. Failures outside the error taxonomy
// are logged and reported with fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err, fallback)})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID parses the :id route parameter, answering 400 when it is not a
// positive integer.
func (h *Handler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.badRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// flexID accepts an id sent as a JSON number or a numeric string, as select
// inputs post them.
type flexID uint

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

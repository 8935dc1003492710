package handler

import (
	"net/http"
	"time"

	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/export"
	"complaintdesk/backend/internal/policy"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the aggregated metrics for the filters on the query string.
func (h *Handler) Dashboard(c *gin.Context) {
	f, ok := h.filter(c, policy.ResourceDashboard)
	if !ok {
		return
	}
	d, err := h.Reports.Dashboard(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "Error fetching dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) Report(c *gin.Context) {
	f, ok := h.filter(c, policy.ResourceReport)
	if !ok {
		return
	}
	views, err := h.Reports.Report(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "Error fetching report")
		return
	}
	c.JSON(http.StatusOK, views)
}

// ExportReport streams the report rows as a spreadsheet.
func (h *Handler) ExportReport(c *gin.Context) {
	f, ok := h.filter(c, policy.ResourceReport)
	if !ok {
		return
	}
	views, err := h.Reports.Report(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "Error fetching report")
		return
	}
	body, err := export.ComplaintsXLSX(views)
	if err != nil {
		h.fail(c, err, "Error exporting report")
		return
	}
	filename := export.Filename(time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, body)
}

func (h *Handler) filter(c *gin.Context, resource policy.Resource) (analysis.Filter, bool) {
	var f analysis.Filter
	if err := policy.Check(middleware.Actor(c).Role, resource, policy.ActionRead); err != nil {
		h.fail(c, err, "Unauthorized")
		return f, false
	}
	if err := c.ShouldBindQuery(&f); err != nil {
		h.badRequest(c, "Invalid filters")
		return f, false
	}
	return f, true
}

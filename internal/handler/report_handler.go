package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certpath/certpath-backend/internal/response"
	"github.com/certpath/certpath-backend/internal/service"
)

// ReportHandler handles the admin reporting endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Overview godoc
// GET /api/v1/admin/reports/overview
// Returns headline counts: candidates, paid members, attempts, pass rate,
// and certificates issued.
func (h *ReportHandler) Overview(c *gin.Context) {
	overview, err := h.reportService.Overview(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"overview": overview})
}

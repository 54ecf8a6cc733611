package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

// ReportHandler lets members file abuse reports.
type ReportHandler struct {
	reports repositories.ReportRepository
}

// NewReportHandler builds a ReportHandler.
func NewReportHandler(reports repositories.ReportRepository) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create files a new report. Any authenticated member may report.
func (h *ReportHandler) Create(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	var req struct {
		Type           string `json:"type" binding:"required"`
		Title          string `json:"title" binding:"required"`
		Description    string `json:"description" binding:"required"`
		ReportedUserID *int   `json:"reportedUserId"`
		ReportedSwapID *int   `json:"reportedSwapId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Type, title and description are required"})
		return
	}
	if !models.ValidReportType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid report type"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Type, title and description are required"})
		return
	}

	report, err := h.reports.Create(c.Request.Context(), models.Report{
		ReporterID:     caller.ID,
		ReportedUserID: req.ReportedUserID,
		ReportedSwapID: req.ReportedSwapID,
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.ReportPending,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Report submitted",
		"report":  report,
	})
}

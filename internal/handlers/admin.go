package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

// AdminHandler exposes the moderation surface. Every route it serves
// sits behind RequireAdmin.
type AdminHandler struct {
	users   repositories.UserRepository
	swaps   repositories.SwapRepository
	reports repositories.ReportRepository
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(users repositories.UserRepository, swaps repositories.SwapRepository, reports repositories.ReportRepository) *AdminHandler {
	return &AdminHandler{users: users, swaps: swaps, reports: reports}
}

// Stats returns platform-wide counters for the admin dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	totalUsers, activeUsers, err := h.users.CountUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch stats"})
		return
	}
	totalSwaps, err := h.swaps.CountSwaps(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch stats"})
		return
	}
	pendingReports, err := h.reports.CountPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, models.AdminStats{
		TotalUsers:     totalUsers,
		ActiveUsers:    activeUsers,
		TotalSwaps:     totalSwaps,
		PendingReports: pendingReports,
	})
}

// ListUsers returns every account, including banned and private ones.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// ListSwaps returns every swap on the platform.
func (h *AdminHandler) ListSwaps(c *gin.Context) {
	swaps, err := h.swaps.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch swaps"})
		return
	}
	if swaps == nil {
		swaps = []models.SwapView{}
	}
	c.JSON(http.StatusOK, swaps)
}

// ListReports returns every filed report.
func (h *AdminHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

// BanUser suspends an account. Admins cannot ban themselves.
func (h *AdminHandler) BanUser(c *gin.Context) {
	h.setBanned(c, true, "User banned")
}

// UnbanUser lifts a suspension.
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.setBanned(c, false, "User unbanned")
}

func (h *AdminHandler) setBanned(c *gin.Context, banned bool, okMessage string) {
	caller, _ := middleware.CurrentUser(c)

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}
	if banned && userID == caller.ID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot ban yourself"})
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}

	if err := h.users.SetBanned(c.Request.Context(), userID, banned); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

// UpdateReport moves a report through its triage states. The resolving
// admin is stamped only when the report reaches a terminal status.
func (h *AdminHandler) UpdateReport(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid report ID"})
		return
	}

	var req struct {
		Status     string `json:"status" binding:"required"`
		AdminNotes string `json:"adminNotes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status is required"})
		return
	}
	if !models.ValidReportStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid report status"})
		return
	}

	if _, err := h.reports.GetByID(c.Request.Context(), reportID); err != nil {
		if errors.Is(err, repositories.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update report"})
		return
	}

	var resolvedBy *int
	if models.TerminalReportStatus(req.Status) {
		resolvedBy = &caller.ID
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), reportID, req.Status, strings.TrimSpace(req.AdminNotes), resolvedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report updated",
		"report":  report,
	})
}

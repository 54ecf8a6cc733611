package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/observability"
	"swap-service/internal/repositories"
	"swap-service/internal/telemetry"
)

const recentSwapsLimit = 5

// SwapHandler manages the swap request lifecycle.
type SwapHandler struct {
	swaps    repositories.SwapRepository
	users    repositories.UserRepository
	notifier *telemetry.Notifier
}

// NewSwapHandler builds a SwapHandler.
func NewSwapHandler(swaps repositories.SwapRepository, users repositories.UserRepository, notifier *telemetry.Notifier) *SwapHandler {
	return &SwapHandler{swaps: swaps, users: users, notifier: notifier}
}

// Create opens a new pending swap towards a target member.
func (h *SwapHandler) Create(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	var req struct {
		TargetUserID  int        `json:"targetUserId" binding:"required"`
		Message       string     `json:"message"`
		ScheduledDate *time.Time `json:"scheduledDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Target user is required"})
		return
	}
	if req.TargetUserID == caller.ID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot send a swap request to yourself"})
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), req.TargetUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create swap request"})
		return
	}

	swap, err := h.swaps.Create(c.Request.Context(), caller.ID, req.TargetUserID, req.Message, req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create swap request"})
		return
	}

	h.notifier.SwapEvent(c.Request.Context(), telemetry.EventSwapRequested, swap, caller.ID, requestIDFromContext(c))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Swap request sent",
		"swap":    swap,
	})
}

// MyRequests partitions the caller's swaps into sent and received.
func (h *SwapHandler) MyRequests(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	sent, received, err := h.swaps.ListForUser(c.Request.Context(), caller.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch swap requests"})
		return
	}

	if err := h.attachCallerFeedback(c, caller.ID, sent, received); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch swap requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sent":     sent,
		"received": received,
	})
}

// Recent returns the caller's latest swap activity for the dashboard.
func (h *SwapHandler) Recent(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	swaps, err := h.swaps.Recent(c.Request.Context(), caller.ID, recentSwapsLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch recent activity"})
		return
	}
	if swaps == nil {
		swaps = []models.SwapView{}
	}

	c.JSON(http.StatusOK, swaps)
}

// Accept transitions a pending swap to accepted. Recipient only.
func (h *SwapHandler) Accept(c *gin.Context) {
	h.transition(c, models.SwapAccepted, telemetry.EventSwapAccepted)
}

// Reject transitions a pending swap to rejected. Recipient only.
func (h *SwapHandler) Reject(c *gin.Context) {
	h.transition(c, models.SwapRejected, telemetry.EventSwapRejected)
}

// Complete transitions an accepted swap to completed. Either participant.
func (h *SwapHandler) Complete(c *gin.Context) {
	h.transition(c, models.SwapCompleted, telemetry.EventSwapCompleted)
}

// transition applies one status change with a compare-and-swap guard so
// two racing calls cannot both win.
func (h *SwapHandler) transition(c *gin.Context, to, eventType string) {
	caller, _ := middleware.CurrentUser(c)

	swapID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	swap, err := h.swaps.GetByID(c.Request.Context(), swapID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Swap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update swap"})
		return
	}

	from := models.SwapPending
	if to == models.SwapCompleted {
		from = models.SwapAccepted
	}

	// Accept/reject is the recipient's call; completion belongs to both sides.
	if to == models.SwapCompleted {
		if !swap.HasParticipant(caller.ID) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized for this swap"})
			return
		}
	} else if swap.TargetID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the recipient can respond to this request"})
		return
	}

	if swap.Status != from {
		c.JSON(http.StatusConflict, gin.H{"message": "Swap is not in a state that allows this action"})
		return
	}

	ok, err := h.swaps.UpdateStatus(c.Request.Context(), swapID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update swap"})
		return
	}
	if !ok {
		observability.IncSwapTransition(to, "conflict")
		c.JSON(http.StatusConflict, gin.H{"message": "Swap was updated by another request"})
		return
	}
	observability.IncSwapTransition(to, "ok")

	swap.Status = to
	h.notifier.SwapEvent(c.Request.Context(), eventType, swap, caller.ID, requestIDFromContext(c))
	c.JSON(http.StatusOK, gin.H{
		"message": "Swap " + to,
		"swap":    swap,
	})
}

// Delete withdraws a pending swap. Requester only; removes the record.
func (h *SwapHandler) Delete(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	swapID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	swap, err := h.swaps.GetByID(c.Request.Context(), swapID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Swap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete swap"})
		return
	}

	if swap.RequesterID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the requester can delete this request"})
		return
	}
	if swap.Status != models.SwapPending {
		c.JSON(http.StatusConflict, gin.H{"message": "Only pending requests can be deleted"})
		return
	}

	ok, err := h.swaps.Delete(c.Request.Context(), swapID, caller.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete swap"})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"message": "Swap was updated by another request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Swap request deleted"})
}

// SubmitFeedback records the caller's rating of the other participant
// on a completed swap.
func (h *SwapHandler) SubmitFeedback(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	swapID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating is required"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5"})
		return
	}
	if len(req.Comment) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment cannot exceed 500 characters"})
		return
	}

	swap, err := h.swaps.GetByID(c.Request.Context(), swapID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Swap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit feedback"})
		return
	}

	if !swap.HasParticipant(caller.ID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized for this swap"})
		return
	}
	if swap.Status != models.SwapCompleted {
		c.JSON(http.StatusConflict, gin.H{"message": "Feedback can only be left on completed swaps"})
		return
	}

	feedback, err := h.swaps.SubmitFeedback(c.Request.Context(), swapID, caller.ID, swap.OtherParticipant(caller.ID), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, repositories.ErrFeedbackExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "Feedback already submitted for this swap"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted",
		"feedback": feedback,
	})
}

// attachCallerFeedback decorates listings with the feedback the caller
// has already authored, so clients know whether to offer the rating form.
func (h *SwapHandler) attachCallerFeedback(c *gin.Context, callerID int, lists ...[]models.SwapView) error {
	var ids []int
	for _, list := range lists {
		for _, sv := range list {
			if sv.Status == models.SwapCompleted {
				ids = append(ids, sv.ID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	feedback, err := h.swaps.ListFeedbackBySwapIDs(c.Request.Context(), ids)
	if err != nil {
		return err
	}
	bySwap := make(map[int]models.Feedback, len(feedback))
	for _, fb := range feedback {
		if fb.ReviewerID == callerID {
			bySwap[fb.SwapID] = fb
		}
	}

	for _, list := range lists {
		for i := range list {
			if fb, ok := bySwap[list[i].ID]; ok {
				fbCopy := fb
				list[i].Feedback = &fbCopy
			}
		}
	}
	return nil
}

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
	"swap-service/internal/ws"
)

const maxMessageLength = 1000

// MessageHandler serves the per-swap conversation. Both endpoints are
// gated the same way: the swap must be accepted and the caller a
// participant.
type MessageHandler struct {
	messages repositories.MessageRepository
	swaps    repositories.SwapRepository
	hub      *ws.Hub
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages repositories.MessageRepository, swaps repositories.SwapRepository, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, swaps: swaps, hub: hub}
}

// List returns the swap's messages oldest first.
func (h *MessageHandler) List(c *gin.Context) {
	swapID, err := strconv.Atoi(c.Param("swapId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	if _, ok := h.authorizeChat(c, swapID); !ok {
		return
	}

	msgs, err := h.messages.ListForSwap(c.Request.Context(), swapID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}
	if msgs == nil {
		msgs = []models.MessageView{}
	}

	c.JSON(http.StatusOK, msgs)
}

// Create appends a message and fans it out to connected sockets.
func (h *MessageHandler) Create(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	var req struct {
		SwapID  int    `json:"swapId" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Swap ID and message content are required"})
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Swap ID and message content are required"})
		return
	}
	if len(req.Content) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message cannot exceed 1000 characters"})
		return
	}

	swap, ok := h.authorizeChat(c, req.SwapID)
	if !ok {
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), swap.ID, caller.ID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send message"})
		return
	}

	view := models.MessageView{Message: msg, SenderName: caller.Name}
	h.hub.BroadcastMessage(swap.ID, view)

	c.JSON(http.StatusCreated, view)
}

// authorizeChat enforces the chat gate for a swap. On failure it writes
// the response and returns ok=false.
func (h *MessageHandler) authorizeChat(c *gin.Context, swapID int) (models.Swap, bool) {
	caller, _ := middleware.CurrentUser(c)

	swap, err := h.swaps.GetByID(c.Request.Context(), swapID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwapNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Swap not found"})
			return models.Swap{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return models.Swap{}, false
	}

	if !swap.HasParticipant(caller.ID) || swap.Status != models.SwapAccepted {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chat not allowed for this swap"})
		return models.Swap{}, false
	}

	return swap, true
}

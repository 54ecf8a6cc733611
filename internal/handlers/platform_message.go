package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

const (
	maxPlatformMessageLength = 1000
	platformMessageFeedLimit = 20
)

// PlatformMessageHandler serves the admin broadcast feed.
type PlatformMessageHandler struct {
	platformMessages repositories.PlatformMessageRepository
}

// NewPlatformMessageHandler builds a PlatformMessageHandler.
func NewPlatformMessageHandler(platformMessages repositories.PlatformMessageRepository) *PlatformMessageHandler {
	return &PlatformMessageHandler{platformMessages: platformMessages}
}

// Latest returns the most recent broadcasts, newest first.
func (h *PlatformMessageHandler) Latest(c *gin.Context) {
	msgs, err := h.platformMessages.Latest(c.Request.Context(), platformMessageFeedLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch platform messages"})
		return
	}
	if msgs == nil {
		msgs = []models.PlatformMessageView{}
	}

	c.JSON(http.StatusOK, msgs)
}

// Create publishes an announcement. Admin authorship is convention, not
// enforced here.
func (h *PlatformMessageHandler) Create(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}
	h.create(c, req.Content)
}

// Broadcast is the admin-panel entry point for the same announcement feed.
func (h *PlatformMessageHandler) Broadcast(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}
	h.create(c, req.Message)
}

func (h *PlatformMessageHandler) create(c *gin.Context, content string) {
	caller, _ := middleware.CurrentUser(c)

	content = strings.TrimSpace(content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}
	if len(content) > maxPlatformMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content cannot exceed 1000 characters"})
		return
	}

	msg, err := h.platformMessages.Create(c.Request.Context(), content, caller.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create platform message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Platform message sent",
		"platformMessage": msg,
	})
}

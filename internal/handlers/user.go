package handlers

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

var mobileNumberPattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

const maxBrowseLimit = 50

// UserHandler manages profile, browse, and stats endpoints.
type UserHandler struct {
	users repositories.UserRepository
	swaps repositories.SwapRepository
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository, swaps repositories.SwapRepository) *UserHandler {
	return &UserHandler{users: users, swaps: swaps}
}

// Browse lists public, non-banned members other than the caller, paginated.
func (h *UserHandler) Browse(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}

	users, total, err := h.users.Browse(c.Request.Context(), caller.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to browse users"})
		return
	}

	for i := range users {
		users[i] = users[i].PublicView()
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
	})
}

// Stats returns the caller's swap activity counts and rating.
func (h *UserHandler) Stats(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	stats, err := h.swaps.Stats(c.Request.Context(), caller.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user stats"})
		return
	}
	stats.AverageRating = caller.AverageRating

	c.JSON(http.StatusOK, stats)
}

// UpdateProfile edits the caller's own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	var req struct {
		Name          string   `json:"name" binding:"required"`
		Email         string   `json:"email" binding:"required,email"`
		MobileNumber  string   `json:"mobileNumber"`
		Location      string   `json:"location"`
		Bio           string   `json:"bio"`
		SkillsOffered []string `json:"skillsOffered"`
		SkillsWanted  []string `json:"skillsWanted"`
		Availability  string   `json:"availability"`
		IsPublic      *bool    `json:"isPublic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid name and email"})
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name must be at least 2 characters"})
		return
	}
	if req.MobileNumber != "" && !mobileNumberPattern.MatchString(req.MobileNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid mobile number"})
		return
	}
	if len(req.Bio) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bio cannot exceed 500 characters"})
		return
	}

	updated := caller
	updated.Name = strings.TrimSpace(req.Name)
	updated.Email = strings.ToLower(strings.TrimSpace(req.Email))
	updated.MobileNumber = req.MobileNumber
	updated.Location = strings.TrimSpace(req.Location)
	updated.Bio = req.Bio
	updated.SkillsOffered = pq.StringArray(req.SkillsOffered)
	updated.SkillsWanted = pq.StringArray(req.SkillsWanted)
	updated.Availability = req.Availability
	updated.IsPublic = req.IsPublic == nil || *req.IsPublic

	user, err := h.users.UpdateProfile(c.Request.Context(), updated)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already taken"})
		case errors.Is(err, repositories.ErrMobileTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Mobile number already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// GetByID returns another member's profile, honoring the visibility flag.
func (h *UserHandler) GetByID(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}

	if !user.IsPublic && user.ID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "This profile is private"})
		return
	}

	c.JSON(http.StatusOK, user.PublicView())
}

// Feedback lists reviews where the given member was rated, newest first.
func (h *UserHandler) Feedback(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	feedback, err := h.swaps.FeedbackForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch feedback"})
		return
	}
	if feedback == nil {
		feedback = []models.FeedbackView{}
	}

	c.JSON(http.StatusOK, feedback)
}

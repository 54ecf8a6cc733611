package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/auth"
	"swap-service/internal/middleware"
	"swap-service/internal/models"
	"swap-service/internal/otp"
	"swap-service/internal/repositories"
	"swap-service/internal/telemetry"
)

// AuthHandler manages registration, login, and password-reset endpoints.
type AuthHandler struct {
	users    repositories.UserRepository
	tokens   *auth.TokenManager
	otpStore otp.Store
	notifier *telemetry.Notifier
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, tokens *auth.TokenManager, otpStore otp.Store, notifier *telemetry.Notifier) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, otpStore: otpStore, notifier: notifier}
}

// Register creates a new account and issues a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid name, email and password"})
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name must be at least 2 characters"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Location:     strings.TrimSpace(req.Location),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists with this email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid email and password"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	if user.IsBanned {
		c.JSON(http.StatusForbidden, gin.H{"message": "Account has been banned"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ForgotPassword issues a short-lived reset code and hands it to the
// mail pipeline.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid email"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	code, err := h.otpStore.Issue(c.Request.Context(), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	h.notifier.OTPRequested(c.Request.Context(), user.Email, user.Name, code, requestIDFromContext(c))
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
}

// VerifyOTP checks a reset code without consuming it.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "OTP must be 6 digits"})
		return
	}

	if err := h.otpStore.Verify(c.Request.Context(), strings.ToLower(req.Email), req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "OTP expired or invalid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully"})
}

// ResetPassword consumes a reset code and replaces the credential.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required,len=6"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid email, OTP and password"})
		return
	}
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := h.otpStore.Consume(c.Request.Context(), user.Email, req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "OTP expired or invalid"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, hash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

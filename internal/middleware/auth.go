package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swap-service/internal/auth"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

const userContextKey = "currentUser"

// AuthMiddleware validates the Authorization header, resolves the token
// to a live identity, and rejects banned accounts. The ban check here is
// the enforcement point for revocation; issued tokens are never recalled.
func AuthMiddleware(tokens *auth.TokenManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access denied. No token provided."})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header."})
			return
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		if user.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Account has been banned."})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin guards admin-only routes. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required."})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated identity attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// SetCurrentUser attaches an identity to the context. Exposed for tests.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity window of issued tokens. There is no
// refresh or revocation list; banned accounts are rejected at request
// time by the auth middleware.
const TokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and verifies the service's bearer tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager constructs a TokenManager around an HMAC secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate issues an HS256 token bound to the user id.
func (m *TokenManager) Generate(userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenTTL).Unix(),
		"iat":     time.Now().Unix(),
		"iss":     "swap-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token and returns the embedded user id. Expired,
// malformed, or tampered tokens all map to ErrInvalidToken.
func (m *TokenManager) Validate(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return int(userID), nil
}

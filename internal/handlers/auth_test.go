package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swap-service/internal/auth"
	"swap-service/internal/mocks"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/forgot-password", handler.ForgotPassword)
	r.POST("/auth/verify-otp", handler.VerifyOTP)
	r.POST("/auth/reset-password", handler.ResetPassword)
	return r
}

func newTestTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret")
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Name == "Alice" && u.Email == "alice@example.com" && u.PasswordHash != "secret1"
	})).Return(models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"Alice","email":"Alice@Example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["token"])
	userRepo.AssertExpectations(t)
}

func TestRegisterShortPassword(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("Create", mock.Anything, mock.Anything).Return(models.User{}, repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
	userRepo.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Email: "alice@example.com", PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Email: "alice@example.com", PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong66"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	userRepo.AssertExpectations(t)
}

func TestLoginBannedAccount(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Email: "alice@example.com", IsBanned: true}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestForgotPasswordIssuesCode(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	otpStore := new(mocks.OTPStoreMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), otpStore, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil).Once()
	otpStore.On("Issue", mock.Anything, "alice@example.com").Return("123456", nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
	otpStore.AssertExpectations(t)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestVerifyOTPInvalidCode(t *testing.T) {
	otpStore := new(mocks.OTPStoreMock)
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), newTestTokens(), otpStore, nil)
	router := setupAuthRouter(handler)

	otpStore.On("Verify", mock.Anything, "alice@example.com", "000000").Return(assert.AnError).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","otp":"000000"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/verify-otp", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "OTP expired or invalid")
	otpStore.AssertExpectations(t)
}

func TestVerifyOTPWrongLength(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), newTestTokens(), new(mocks.OTPStoreMock), nil)
	router := setupAuthRouter(handler)

	body := bytes.NewBufferString(`{"email":"alice@example.com","otp":"123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/verify-otp", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	otpStore := new(mocks.OTPStoreMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), otpStore, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Email: "alice@example.com"}, nil).Once()
	otpStore.On("Consume", mock.Anything, "alice@example.com", "123456").Return(nil).Once()
	userRepo.On("UpdatePassword", mock.Anything, 1, mock.MatchedBy(func(hash string) bool {
		return hash != "" && hash != "newpass1"
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","otp":"123456","newPassword":"newpass1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
	otpStore.AssertExpectations(t)
}

func TestResetPasswordConsumedCodeRejected(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	otpStore := new(mocks.OTPStoreMock)
	handler := NewAuthHandler(userRepo, newTestTokens(), otpStore, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Email: "alice@example.com"}, nil).Once()
	otpStore.On("Consume", mock.Anything, "alice@example.com", "123456").Return(assert.AnError).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","otp":"123456","newPassword":"newpass1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertExpectations(t)
	otpStore.AssertExpectations(t)
}

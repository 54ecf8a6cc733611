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

	"swap-service/internal/middleware"
	"swap-service/internal/mocks"
	"swap-service/internal/models"
	"swap-service/internal/repositories"
)

func setupUserRouter(handler *UserHandler, caller models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, caller)
		c.Next()
	})
	r.GET("/users/browse", handler.Browse)
	r.GET("/users/stats", handler.Stats)
	r.PUT("/users/profile", handler.UpdateProfile)
	r.GET("/users/:id", handler.GetByID)
	r.GET("/users/:id/feedback", handler.Feedback)
	return r
}

func TestBrowseUsersPagination(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1})

	userRepo.On("Browse", mock.Anything, 1, 2, 10).
		Return([]models.User{{ID: 2, Name: "Bob", Email: "bob@example.com"}}, 25, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/browse?page=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Users       []models.User `json:"users"`
		TotalPages  int           `json:"totalPages"`
		CurrentPage int           `json:"currentPage"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	require.Len(t, resp.Users, 1)
	assert.Empty(t, resp.Users[0].Email)
	userRepo.AssertExpectations(t)
}

func TestBrowseUsersClampsLimit(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1})

	userRepo.On("Browse", mock.Anything, 1, 1, maxBrowseLimit).Return([]models.User{}, 0, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/browse?limit=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestUserStats(t *testing.T) {
	swapRepo := new(mocks.SwapRepositoryMock)
	handler := NewUserHandler(new(mocks.UserRepositoryMock), swapRepo)
	router := setupUserRouter(handler, models.User{ID: 1, AverageRating: 4.5})

	swapRepo.On("Stats", mock.Anything, 1).
		Return(models.UserStats{TotalSwaps: 7, PendingRequests: 2, CompletedSwaps: 3}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.UserStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 7, stats.TotalSwaps)
	assert.Equal(t, 4.5, stats.AverageRating)
	swapRepo.AssertExpectations(t)
}

func TestUpdateProfileSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1, Name: "Alice", Email: "alice@example.com"})

	userRepo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.ID == 1 && u.Name == "Alice B" && len(u.SkillsOffered) == 2 && u.IsPublic
	})).Return(models.User{ID: 1, Name: "Alice B"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"Alice B","email":"alice@example.com","skillsOffered":["go","sql"],"skillsWanted":["piano"]}`)
	req := httptest.NewRequest(http.MethodPut, "/users/profile", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfileBadMobileNumber(t *testing.T) {
	handler := NewUserHandler(new(mocks.UserRepositoryMock), new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1})

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","mobileNumber":"not-a-number"}`)
	req := httptest.NewRequest(http.MethodPut, "/users/profile", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfileMobileTaken(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1})

	userRepo.On("UpdateProfile", mock.Anything, mock.Anything).
		Return(models.User{}, repositories.ErrMobileTaken).Once()

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","mobileNumber":"+14155550123"}`)
	req := httptest.NewRequest(http.MethodPut, "/users/profile", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mobile number already taken")
	userRepo.AssertExpectations(t)
}

func TestGetUserPrivateProfile(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1})

	userRepo.On("GetByID", mock.Anything, 2).
		Return(models.User{ID: 2, Name: "Bob", IsPublic: false}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestGetUserOwnPrivateProfile(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 2})

	userRepo.On("GetByID", mock.Anything, 2).
		Return(models.User{ID: 2, Name: "Bob", IsPublic: false}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestGetUserStripsContactFields(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.SwapRepositoryMock))
	router := setupUserRouter(handler, models.User{ID: 1})

	userRepo.On("GetByID", mock.Anything, 2).
		Return(models.User{ID: 2, Name: "Bob", Email: "bob@example.com", MobileNumber: "+14155550123", IsPublic: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bob@example.com")
	assert.NotContains(t, rec.Body.String(), "+14155550123")
	userRepo.AssertExpectations(t)
}

func TestUserFeedbackEmpty(t *testing.T) {
	swapRepo := new(mocks.SwapRepositoryMock)
	handler := NewUserHandler(new(mocks.UserRepositoryMock), swapRepo)
	router := setupUserRouter(handler, models.User{ID: 1})

	swapRepo.On("FeedbackForUser", mock.Anything, 2).Return(([]models.FeedbackView)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/2/feedback", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	swapRepo.AssertExpectations(t)
}

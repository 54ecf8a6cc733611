package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"swap-service/internal/models"
	"swap-service/internal/otp"
	"swap-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id int) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var updated models.User
	if val := args.Get(0); val != nil {
		updated = val.(models.User)
	}
	return updated, args.Error(1)
}

func (m *UserRepositoryMock) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) Browse(ctx context.Context, viewerID, page, limit int) ([]models.User, int, error) {
	args := m.Called(ctx, viewerID, page, limit)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Int(1), args.Error(2)
}

func (m *UserRepositoryMock) SetBanned(ctx context.Context, id int, banned bool) error {
	args := m.Called(ctx, id, banned)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) CountUsers(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

type SwapRepositoryMock struct {
	mock.Mock
}

func (m *SwapRepositoryMock) Create(ctx context.Context, requesterID, targetID int, message string, scheduledAt *time.Time) (models.Swap, error) {
	args := m.Called(ctx, requesterID, targetID, message, scheduledAt)
	var swap models.Swap
	if val := args.Get(0); val != nil {
		swap = val.(models.Swap)
	}
	return swap, args.Error(1)
}

func (m *SwapRepositoryMock) GetByID(ctx context.Context, swapID int) (models.Swap, error) {
	args := m.Called(ctx, swapID)
	var swap models.Swap
	if val := args.Get(0); val != nil {
		swap = val.(models.Swap)
	}
	return swap, args.Error(1)
}

func (m *SwapRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.SwapView, []models.SwapView, error) {
	args := m.Called(ctx, userID)
	var sent, received []models.SwapView
	if val := args.Get(0); val != nil {
		sent = val.([]models.SwapView)
	}
	if val := args.Get(1); val != nil {
		received = val.([]models.SwapView)
	}
	return sent, received, args.Error(2)
}

func (m *SwapRepositoryMock) Recent(ctx context.Context, userID, limit int) ([]models.SwapView, error) {
	args := m.Called(ctx, userID, limit)
	var swaps []models.SwapView
	if val := args.Get(0); val != nil {
		swaps = val.([]models.SwapView)
	}
	return swaps, args.Error(1)
}

func (m *SwapRepositoryMock) UpdateStatus(ctx context.Context, swapID int, from, to string) (bool, error) {
	args := m.Called(ctx, swapID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *SwapRepositoryMock) Delete(ctx context.Context, swapID, requesterID int) (bool, error) {
	args := m.Called(ctx, swapID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *SwapRepositoryMock) SubmitFeedback(ctx context.Context, swapID, reviewerID, rateeID, rating int, comment string) (models.Feedback, error) {
	args := m.Called(ctx, swapID, reviewerID, rateeID, rating, comment)
	var fb models.Feedback
	if val := args.Get(0); val != nil {
		fb = val.(models.Feedback)
	}
	return fb, args.Error(1)
}

func (m *SwapRepositoryMock) ListFeedbackBySwapIDs(ctx context.Context, swapIDs []int) ([]models.Feedback, error) {
	args := m.Called(ctx, swapIDs)
	var fbs []models.Feedback
	if val := args.Get(0); val != nil {
		fbs = val.([]models.Feedback)
	}
	return fbs, args.Error(1)
}

func (m *SwapRepositoryMock) FeedbackForUser(ctx context.Context, rateeID int) ([]models.FeedbackView, error) {
	args := m.Called(ctx, rateeID)
	var fbs []models.FeedbackView
	if val := args.Get(0); val != nil {
		fbs = val.([]models.FeedbackView)
	}
	return fbs, args.Error(1)
}

func (m *SwapRepositoryMock) Stats(ctx context.Context, userID int) (models.UserStats, error) {
	args := m.Called(ctx, userID)
	var stats models.UserStats
	if val := args.Get(0); val != nil {
		stats = val.(models.UserStats)
	}
	return stats, args.Error(1)
}

func (m *SwapRepositoryMock) ListAll(ctx context.Context) ([]models.SwapView, error) {
	args := m.Called(ctx)
	var swaps []models.SwapView
	if val := args.Get(0); val != nil {
		swaps = val.([]models.SwapView)
	}
	return swaps, args.Error(1)
}

func (m *SwapRepositoryMock) CountSwaps(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, swapID, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, swapID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListForSwap(ctx context.Context, swapID int) ([]models.MessageView, error) {
	args := m.Called(ctx, swapID)
	var msgs []models.MessageView
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageView)
	}
	return msgs, args.Error(1)
}

type ReportRepositoryMock struct {
	mock.Mock
}

func (m *ReportRepositoryMock) Create(ctx context.Context, report models.Report) (models.Report, error) {
	args := m.Called(ctx, report)
	var created models.Report
	if val := args.Get(0); val != nil {
		created = val.(models.Report)
	}
	return created, args.Error(1)
}

func (m *ReportRepositoryMock) GetByID(ctx context.Context, reportID int) (models.Report, error) {
	args := m.Called(ctx, reportID)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *ReportRepositoryMock) ListAll(ctx context.Context) ([]models.Report, error) {
	args := m.Called(ctx)
	var reports []models.Report
	if val := args.Get(0); val != nil {
		reports = val.([]models.Report)
	}
	return reports, args.Error(1)
}

func (m *ReportRepositoryMock) UpdateStatus(ctx context.Context, reportID int, status, adminNotes string, resolvedBy *int) (models.Report, error) {
	args := m.Called(ctx, reportID, status, adminNotes, resolvedBy)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *ReportRepositoryMock) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type PlatformMessageRepositoryMock struct {
	mock.Mock
}

func (m *PlatformMessageRepositoryMock) Create(ctx context.Context, content string, sentBy int) (models.PlatformMessage, error) {
	args := m.Called(ctx, content, sentBy)
	var msg models.PlatformMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.PlatformMessage)
	}
	return msg, args.Error(1)
}

func (m *PlatformMessageRepositoryMock) Latest(ctx context.Context, limit int) ([]models.PlatformMessageView, error) {
	args := m.Called(ctx, limit)
	var msgs []models.PlatformMessageView
	if val := args.Get(0); val != nil {
		msgs = val.([]models.PlatformMessageView)
	}
	return msgs, args.Error(1)
}

type OTPStoreMock struct {
	mock.Mock
}

func (m *OTPStoreMock) Issue(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *OTPStoreMock) Verify(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *OTPStoreMock) Consume(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.SwapRepository = (*SwapRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.ReportRepository = (*ReportRepositoryMock)(nil)
var _ repositories.PlatformMessageRepository = (*PlatformMessageRepositoryMock)(nil)
var _ otp.Store = (*OTPStoreMock)(nil)

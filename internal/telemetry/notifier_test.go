package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swap-service/internal/models"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *publisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestSwapEventAddressesOtherParticipant(t *testing.T) {
	pub := new(publisherMock)
	notifier := NewNotifier(pub, "swap-service", "test")

	pub.On("Publish", mock.Anything, EventSwapAccepted, mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(Envelope)
		if !ok {
			return false
		}
		payload, ok := envelope.Payload.(SwapPayload)
		return ok && envelope.EventType == EventSwapAccepted &&
			payload.SwapID == 10 && payload.ActorID == 2 && payload.RecipientID == 1
	})).Return(nil).Once()

	swap := models.Swap{ID: 10, RequesterID: 1, TargetID: 2, Status: models.SwapAccepted}
	notifier.SwapEvent(context.Background(), EventSwapAccepted, swap, 2, "req-1")

	pub.AssertExpectations(t)
}

func TestOTPRequestedEnvelope(t *testing.T) {
	pub := new(publisherMock)
	notifier := NewNotifier(pub, "swap-service", "test")

	pub.On("Publish", mock.Anything, EventOTPRequested, mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(Envelope)
		if !ok {
			return false
		}
		payload, ok := envelope.Payload.(OTPPayload)
		return ok && envelope.SchemaVersion == 1 && payload.Email == "alice@example.com" && payload.Code == "123456"
	})).Return(nil).Once()

	notifier.OTPRequested(context.Background(), "alice@example.com", "Alice", "123456", "")

	pub.AssertExpectations(t)
}

func TestNilNotifierIsSafe(t *testing.T) {
	var notifier *Notifier

	require.NotPanics(t, func() {
		notifier.SwapEvent(context.Background(), EventSwapRequested, models.Swap{}, 1, "")
		notifier.OTPRequested(context.Background(), "a@b.c", "A", "123456", "")
	})
	assert.Nil(t, notifier)
}

package telemetry

import (
	"context"
	"log"
	"time"

	"swap-service/internal/models"
)

// Swap lifecycle event types carried on the notification exchange.
const (
	EventSwapRequested = "swap.requested"
	EventSwapAccepted  = "swap.accepted"
	EventSwapRejected  = "swap.rejected"
	EventSwapCompleted = "swap.completed"
	EventOTPRequested  = "auth.otp_requested"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// Notifier emits notification events to the message exchange. The mail
// integration consumes them out of process; dispatch here is
// fire-and-forget and never fails the triggering request.
type Notifier struct {
	publisher   Publisher
	service     string
	environment string
}

// Envelope is the wire shape of every notification event.
type Envelope struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	OccurredAt    string    `json:"occurred_at"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	Payload       any       `json:"payload"`
	RequestID     string    `json:"request_id,omitempty"`
}

// SwapPayload describes the swap a lifecycle event refers to.
type SwapPayload struct {
	SwapID      int    `json:"swap_id"`
	Status      string `json:"status"`
	ActorID     int    `json:"actor_id"`
	RecipientID int    `json:"recipient_id"`
}

// OTPPayload carries a password-reset code to the mail consumer.
type OTPPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

// NewNotifier constructs a Notifier.
func NewNotifier(publisher Publisher, service, environment string) *Notifier {
	return &Notifier{
		publisher:   publisher,
		service:     service,
		environment: environment,
	}
}

// SwapEvent publishes a swap lifecycle notification addressed to the
// participant who did not perform the action.
func (n *Notifier) SwapEvent(ctx context.Context, eventType string, swap models.Swap, actorID int, requestID string) {
	if n == nil || n.publisher == nil {
		return
	}

	envelope := n.envelope(eventType, requestID, SwapPayload{
		SwapID:      swap.ID,
		Status:      swap.Status,
		ActorID:     actorID,
		RecipientID: swap.OtherParticipant(actorID),
	})
	if err := n.publisher.Publish(ctx, eventType, envelope); err != nil {
		log.Printf("notification publish failed: %v", err)
	}
}

// OTPRequested publishes a password-reset code for the mail consumer.
func (n *Notifier) OTPRequested(ctx context.Context, email, name, code, requestID string) {
	if n == nil || n.publisher == nil {
		return
	}

	envelope := n.envelope(EventOTPRequested, requestID, OTPPayload{Email: email, Name: name, Code: code})
	if err := n.publisher.Publish(ctx, EventOTPRequested, envelope); err != nil {
		log.Printf("notification publish failed: %v", err)
	}
}

func (n *Notifier) envelope(eventType, requestID string, payload any) Envelope {
	return Envelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       n.service,
		Environment:   n.environment,
		Payload:       payload,
		RequestID:     requestID,
	}
}

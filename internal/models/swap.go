package models

import "time"

// Swap lifecycle states. Pending and accepted are the only non-terminal
// states: pending -> accepted|rejected, accepted -> completed. A pending
// swap may also be deleted outright by its requester.
const (
	SwapPending   = "pending"
	SwapAccepted  = "accepted"
	SwapRejected  = "rejected"
	SwapCompleted = "completed"
)

// Swap is a skill-exchange request between exactly two users.
type Swap struct {
	ID          int        `db:"id" json:"id"`
	RequesterID int        `db:"requester_id" json:"requesterId"`
	TargetID    int        `db:"target_id" json:"targetId"`
	Status      string     `db:"status" json:"status"`
	Message     string     `db:"message" json:"message,omitempty"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduledDate,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// HasParticipant reports whether userID is one of the swap's two sides.
func (s Swap) HasParticipant(userID int) bool {
	return s.RequesterID == userID || s.TargetID == userID
}

// OtherParticipant returns the counterpart of userID in the swap.
func (s Swap) OtherParticipant(userID int) int {
	if s.RequesterID == userID {
		return s.TargetID
	}
	return s.RequesterID
}

// SwapView is a swap decorated with participant names for listings.
type SwapView struct {
	Swap
	RequesterName string    `db:"requester_name" json:"requesterName"`
	TargetName    string    `db:"target_name" json:"targetName"`
	Feedback      *Feedback `json:"feedback,omitempty"`
}

// Feedback is one participant's rating of the other after completion.
// Each swap holds at most one feedback row per direction.
type Feedback struct {
	ID         int       `db:"id" json:"id"`
	SwapID     int       `db:"swap_id" json:"swapId"`
	ReviewerID int       `db:"reviewer_id" json:"reviewerId"`
	RateeID    int       `db:"ratee_id" json:"rateeId"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// FeedbackView resolves the reviewer's display name for profile pages.
type FeedbackView struct {
	Feedback
	ReviewerName string `db:"reviewer_name" json:"reviewerName"`
}

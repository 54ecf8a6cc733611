package models

import "time"

// Message is a chat message scoped to an accepted swap.
type Message struct {
	ID        int       `db:"id" json:"id"`
	SwapID    int       `db:"swap_id" json:"swapId"`
	SenderID  int       `db:"sender_id" json:"senderId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MessageView carries the sender's display name alongside the message.
type MessageView struct {
	Message
	SenderName string `db:"sender_name" json:"senderName"`
}

// ChatEvent is broadcast through websockets to swap chat rooms.
type ChatEvent struct {
	Type    string       `json:"type"`
	Message *MessageView `json:"message,omitempty"`
}

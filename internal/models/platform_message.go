package models

import "time"

// PlatformMessage is a broadcast announcement shown to all members.
type PlatformMessage struct {
	ID        int       `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	SentByID  int       `db:"sent_by" json:"sentById"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PlatformMessageView resolves the sender's display name.
type PlatformMessageView struct {
	PlatformMessage
	SenderName string `db:"sender_name" json:"senderName"`
}

// AdminStats summarizes platform activity for the admin panel.
type AdminStats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveUsers    int `json:"activeUsers"`
	TotalSwaps     int `json:"totalSwaps"`
	PendingReports int `json:"pendingReports"`
}

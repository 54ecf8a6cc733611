package models

import (
	"time"

	"github.com/lib/pq"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered member of the platform.
type User struct {
	ID            int            `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Email         string         `db:"email" json:"email,omitempty"`
	PasswordHash  string         `db:"password_hash" json:"-"`
	MobileNumber  string         `db:"mobile_number" json:"mobileNumber,omitempty"`
	Location      string         `db:"location" json:"location"`
	Bio           string         `db:"bio" json:"bio"`
	SkillsOffered pq.StringArray `db:"skills_offered" json:"skillsOffered"`
	SkillsWanted  pq.StringArray `db:"skills_wanted" json:"skillsWanted"`
	Availability  string         `db:"availability" json:"availability"`
	IsPublic      bool           `db:"is_public" json:"isPublic"`
	Role          string         `db:"role" json:"role"`
	IsBanned      bool           `db:"is_banned" json:"isBanned"`
	AverageRating float64        `db:"average_rating" json:"averageRating"`
	TotalRatings  int            `db:"total_ratings" json:"totalRatings"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicView strips fields that must never leave the server for
// profiles viewed by other members.
func (u User) PublicView() User {
	u.Email = ""
	u.PasswordHash = ""
	u.MobileNumber = ""
	return u
}

// UserStats aggregates swap activity for the dashboard.
type UserStats struct {
	TotalSwaps      int     `json:"totalSwaps"`
	PendingRequests int     `json:"pendingRequests"`
	CompletedSwaps  int     `json:"completedSwaps"`
	AverageRating   float64 `json:"averageRating"`
}

package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"swap-service/internal/models"
)

// PlatformMessageRepository abstracts broadcast announcement persistence.
type PlatformMessageRepository interface {
	Create(ctx context.Context, content string, sentBy int) (models.PlatformMessage, error)
	Latest(ctx context.Context, limit int) ([]models.PlatformMessageView, error)
}

// PlatformMessageRepo is a sqlx implementation.
type PlatformMessageRepo struct {
	db *sqlx.DB
}

// NewPlatformMessageRepo constructs a PlatformMessageRepo.
func NewPlatformMessageRepo(db *sqlx.DB) *PlatformMessageRepo {
	return &PlatformMessageRepo{db: db}
}

// Create persists a broadcast message.
func (r *PlatformMessageRepo) Create(ctx context.Context, content string, sentBy int) (models.PlatformMessage, error) {
	var msg models.PlatformMessage
	err := r.db.GetContext(ctx, &msg,
		`INSERT INTO platform_messages (content, sent_by) VALUES ($1, $2)
            RETURNING id, content, sent_by, created_at`,
		content, sentBy)
	return msg, err
}

// Latest returns the most recent announcements, newest first.
func (r *PlatformMessageRepo) Latest(ctx context.Context, limit int) ([]models.PlatformMessageView, error) {
	query := `SELECT p.id, p.content, p.sent_by, p.created_at, u.name AS sender_name
        FROM platform_messages p
        JOIN users u ON u.id = p.sent_by
        ORDER BY p.created_at DESC
        LIMIT $1`
	var msgs []models.PlatformMessageView
	err := r.db.SelectContext(ctx, &msgs, query, limit)
	return msgs, err
}

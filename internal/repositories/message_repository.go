package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"swap-service/internal/models"
)

// MessageRepository defines interactions for swap chat messages.
type MessageRepository interface {
	Create(ctx context.Context, swapID, senderID int, content string) (models.Message, error)
	ListForSwap(ctx context.Context, swapID int) ([]models.MessageView, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a message in a swap's conversation.
func (r *MessageRepo) Create(ctx context.Context, swapID, senderID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`INSERT INTO messages (swap_id, sender_id, content) VALUES ($1, $2, $3)
            RETURNING id, swap_id, sender_id, content, created_at`,
		swapID, senderID, content)
	return msg, err
}

// ListForSwap returns the swap's messages in ascending chronological
// order with sender names resolved.
func (r *MessageRepo) ListForSwap(ctx context.Context, swapID int) ([]models.MessageView, error) {
	query := `SELECT m.id, m.swap_id, m.sender_id, m.content, m.created_at,
            u.name AS sender_name
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        WHERE m.swap_id=$1
        ORDER BY m.created_at ASC`
	var msgs []models.MessageView
	err := r.db.SelectContext(ctx, &msgs, query, swapID)
	return msgs, err
}

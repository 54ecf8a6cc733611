package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"swap-service/internal/models"
)

var (
	ErrSwapNotFound   = errors.New("swap not found")
	ErrFeedbackExists = errors.New("feedback already submitted for this swap")
)

const swapColumns = `id, requester_id, target_id, status, message, scheduled_at, created_at, updated_at`

const swapViewColumns = `s.id, s.requester_id, s.target_id, s.status, s.message,
    s.scheduled_at, s.created_at, s.updated_at,
    req.name AS requester_name, tgt.name AS target_name`

// SwapRepository abstracts swap lifecycle persistence.
type SwapRepository interface {
	Create(ctx context.Context, requesterID, targetID int, message string, scheduledAt *time.Time) (models.Swap, error)
	GetByID(ctx context.Context, swapID int) (models.Swap, error)
	ListForUser(ctx context.Context, userID int) (sent []models.SwapView, received []models.SwapView, err error)
	Recent(ctx context.Context, userID, limit int) ([]models.SwapView, error)
	UpdateStatus(ctx context.Context, swapID int, from, to string) (bool, error)
	Delete(ctx context.Context, swapID, requesterID int) (bool, error)
	SubmitFeedback(ctx context.Context, swapID, reviewerID, rateeID, rating int, comment string) (models.Feedback, error)
	ListFeedbackBySwapIDs(ctx context.Context, swapIDs []int) ([]models.Feedback, error)
	FeedbackForUser(ctx context.Context, rateeID int) ([]models.FeedbackView, error)
	Stats(ctx context.Context, userID int) (models.UserStats, error)
	ListAll(ctx context.Context) ([]models.SwapView, error)
	CountSwaps(ctx context.Context) (int, error)
}

// SwapRepo is a sqlx implementation of SwapRepository.
type SwapRepo struct {
	db *sqlx.DB
}

// NewSwapRepo constructs a SwapRepo.
func NewSwapRepo(db *sqlx.DB) *SwapRepo {
	return &SwapRepo{db: db}
}

// Create inserts a new swap in the pending state.
func (r *SwapRepo) Create(ctx context.Context, requesterID, targetID int, message string, scheduledAt *time.Time) (models.Swap, error) {
	var swap models.Swap
	err := r.db.GetContext(ctx, &swap,
		`INSERT INTO swaps (requester_id, target_id, message, scheduled_at)
            VALUES ($1, $2, $3, $4) RETURNING `+swapColumns,
		requesterID, targetID, message, scheduledAt)
	return swap, err
}

// GetByID fetches a swap by primary key.
func (r *SwapRepo) GetByID(ctx context.Context, swapID int) (models.Swap, error) {
	var swap models.Swap
	err := r.db.GetContext(ctx, &swap, `SELECT `+swapColumns+` FROM swaps WHERE id=$1`, swapID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Swap{}, ErrSwapNotFound
	}
	return swap, err
}

// ListForUser partitions the user's swaps into sent and received,
// newest first, with participant names resolved.
func (r *SwapRepo) ListForUser(ctx context.Context, userID int) ([]models.SwapView, []models.SwapView, error) {
	query := `SELECT ` + swapViewColumns + ` FROM swaps s
        JOIN users req ON req.id = s.requester_id
        JOIN users tgt ON tgt.id = s.target_id
        WHERE s.requester_id=$1 OR s.target_id=$1
        ORDER BY s.created_at DESC`
	var all []models.SwapView
	if err := r.db.SelectContext(ctx, &all, query, userID); err != nil {
		return nil, nil, err
	}

	sent := make([]models.SwapView, 0, len(all))
	received := make([]models.SwapView, 0, len(all))
	for _, sv := range all {
		if sv.RequesterID == userID {
			sent = append(sent, sv)
		} else {
			received = append(received, sv)
		}
	}
	return sent, received, nil
}

// Recent returns the user's most recently updated swaps.
func (r *SwapRepo) Recent(ctx context.Context, userID, limit int) ([]models.SwapView, error) {
	query := `SELECT ` + swapViewColumns + ` FROM swaps s
        JOIN users req ON req.id = s.requester_id
        JOIN users tgt ON tgt.id = s.target_id
        WHERE s.requester_id=$1 OR s.target_id=$1
        ORDER BY s.updated_at DESC
        LIMIT $2`
	var views []models.SwapView
	err := r.db.SelectContext(ctx, &views, query, userID, limit)
	return views, err
}

// UpdateStatus transitions a swap from one status to another with a
// compare-and-swap on the current status, so two racing transitions
// cannot both succeed. Returns false when the guard did not match.
func (r *SwapRepo) UpdateStatus(ctx context.Context, swapID int, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE swaps SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2`,
		swapID, from, to)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count == 1, nil
}

// Delete removes a pending swap owned by requesterID. Messages cascade.
func (r *SwapRepo) Delete(ctx context.Context, swapID, requesterID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM swaps WHERE id=$1 AND requester_id=$2 AND status=$3`,
		swapID, requesterID, models.SwapPending)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count == 1, nil
}

// SubmitFeedback inserts the reviewer's feedback slot and folds the rating
// into the ratee's running mean, atomically. A second submission by the
// same reviewer hits the (swap_id, reviewer_id) unique index.
func (r *SwapRepo) SubmitFeedback(ctx context.Context, swapID, reviewerID, rateeID, rating int, comment string) (models.Feedback, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Feedback{}, err
	}
	defer tx.Rollback()

	var fb models.Feedback
	err = tx.GetContext(ctx, &fb,
		`INSERT INTO swap_feedback (swap_id, reviewer_id, ratee_id, rating, comment)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id, swap_id, reviewer_id, ratee_id, rating, comment, created_at`,
		swapID, reviewerID, rateeID, rating, comment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.Feedback{}, ErrFeedbackExists
		}
		return models.Feedback{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET
            average_rating = (average_rating * total_ratings + $2) / (total_ratings + 1),
            total_ratings = total_ratings + 1,
            updated_at = NOW()
        WHERE id=$1`,
		rateeID, rating)
	if err != nil {
		return models.Feedback{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Feedback{}, err
	}
	return fb, nil
}

// ListFeedbackBySwapIDs loads feedback rows for a set of swaps.
func (r *SwapRepo) ListFeedbackBySwapIDs(ctx context.Context, swapIDs []int) ([]models.Feedback, error) {
	if len(swapIDs) == 0 {
		return nil, nil
	}
	var fbs []models.Feedback
	err := r.db.SelectContext(ctx, &fbs,
		`SELECT id, swap_id, reviewer_id, ratee_id, rating, comment, created_at
            FROM swap_feedback WHERE swap_id = ANY($1)`,
		pq.Array(swapIDs))
	return fbs, err
}

// FeedbackForUser returns feedback where the user was rated, newest first.
func (r *SwapRepo) FeedbackForUser(ctx context.Context, rateeID int) ([]models.FeedbackView, error) {
	query := `SELECT f.id, f.swap_id, f.reviewer_id, f.ratee_id, f.rating, f.comment, f.created_at,
            u.name AS reviewer_name
        FROM swap_feedback f
        JOIN users u ON u.id = f.reviewer_id
        WHERE f.ratee_id=$1
        ORDER BY f.created_at DESC`
	var views []models.FeedbackView
	err := r.db.SelectContext(ctx, &views, query, rateeID)
	return views, err
}

// Stats aggregates the user's swap counts by status on demand.
func (r *SwapRepo) Stats(ctx context.Context, userID int) (models.UserStats, error) {
	var stats models.UserStats
	query := `SELECT
            COUNT(*) AS total,
            COUNT(*) FILTER (WHERE status='pending') AS pending,
            COUNT(*) FILTER (WHERE status='completed') AS completed
        FROM swaps WHERE requester_id=$1 OR target_id=$1`
	row := struct {
		Total     int `db:"total"`
		Pending   int `db:"pending"`
		Completed int `db:"completed"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return stats, err
	}
	stats.TotalSwaps = row.Total
	stats.PendingRequests = row.Pending
	stats.CompletedSwaps = row.Completed
	return stats, nil
}

// ListAll returns every swap with participant names (admin listing).
func (r *SwapRepo) ListAll(ctx context.Context) ([]models.SwapView, error) {
	query := `SELECT ` + swapViewColumns + ` FROM swaps s
        JOIN users req ON req.id = s.requester_id
        JOIN users tgt ON tgt.id = s.target_id
        ORDER BY s.created_at DESC`
	var views []models.SwapView
	err := r.db.SelectContext(ctx, &views, query)
	return views, err
}

// CountSwaps returns the total number of swaps.
func (r *SwapRepo) CountSwaps(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM swaps`)
	return total, err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"swap-service/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

const reportColumns = `id, reporter_id, reported_user_id, reported_swap_id, type, title,
    description, status, admin_notes, resolved_by, resolved_at, created_at`

// ReportRepository abstracts abuse-report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report models.Report) (models.Report, error)
	GetByID(ctx context.Context, reportID int) (models.Report, error)
	ListAll(ctx context.Context) ([]models.Report, error)
	UpdateStatus(ctx context.Context, reportID int, status, adminNotes string, resolvedBy *int) (models.Report, error)
	CountPending(ctx context.Context) (int, error)
}

// ReportRepo is a sqlx implementation of ReportRepository.
type ReportRepo struct {
	db *sqlx.DB
}

// NewReportRepo constructs a ReportRepo.
func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create files a new report in the pending state.
func (r *ReportRepo) Create(ctx context.Context, report models.Report) (models.Report, error) {
	var created models.Report
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO reports (reporter_id, reported_user_id, reported_swap_id, type, title, description)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING `+reportColumns,
		report.ReporterID, report.ReportedUserID, report.ReportedSwapID,
		report.Type, report.Title, report.Description)
	return created, err
}

// GetByID fetches a report by primary key.
func (r *ReportRepo) GetByID(ctx context.Context, reportID int) (models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report, `SELECT `+reportColumns+` FROM reports WHERE id=$1`, reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, ErrReportNotFound
	}
	return report, err
}

// ListAll returns every report, newest first.
func (r *ReportRepo) ListAll(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC`)
	return reports, err
}

// UpdateStatus transitions a report and attaches admin notes. The resolver
// stamp is written only for terminal statuses.
func (r *ReportRepo) UpdateStatus(ctx context.Context, reportID int, status, adminNotes string, resolvedBy *int) (models.Report, error) {
	query := `UPDATE reports SET
            status=$2,
            admin_notes=$3,
            resolved_by=$4,
            resolved_at=CASE WHEN $4::INT IS NULL THEN NULL ELSE NOW() END
        WHERE id=$1
        RETURNING ` + reportColumns
	var updated models.Report
	err := r.db.GetContext(ctx, &updated, query, reportID, status, adminNotes, resolvedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, ErrReportNotFound
	}
	return updated, err
}

// CountPending returns the number of unhandled reports.
func (r *ReportRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports WHERE status=$1`, models.ReportPending)
	return count, err
}

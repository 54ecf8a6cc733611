package models

import "time"

// Report categories.
const (
	ReportTypeUser    = "user"
	ReportTypeSwap    = "swap"
	ReportTypeContent = "content"
)

// Report statuses.
const (
	ReportPending       = "pending"
	ReportInvestigating = "investigating"
	ReportResolved      = "resolved"
	ReportDismissed     = "dismissed"
)

// Report is an abuse report filed by a member, handled by admins.
type Report struct {
	ID             int        `db:"id" json:"id"`
	ReporterID     int        `db:"reporter_id" json:"reporterId"`
	ReportedUserID *int       `db:"reported_user_id" json:"reportedUserId,omitempty"`
	ReportedSwapID *int       `db:"reported_swap_id" json:"reportedSwapId,omitempty"`
	Type           string     `db:"type" json:"type"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Status         string     `db:"status" json:"status"`
	AdminNotes     string     `db:"admin_notes" json:"adminNotes,omitempty"`
	ResolvedBy     *int       `db:"resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// ValidReportType reports whether t is a known report category.
func ValidReportType(t string) bool {
	return t == ReportTypeUser || t == ReportTypeSwap || t == ReportTypeContent
}

// ValidReportStatus reports whether s is a known report status.
func ValidReportStatus(s string) bool {
	switch s {
	case ReportPending, ReportInvestigating, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// TerminalReportStatus reports whether s closes the report.
func TerminalReportStatus(s string) bool {
	return s == ReportResolved || s == ReportDismissed
}

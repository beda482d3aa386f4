package models

import "time"

// PublishType determines how a report enters circulation.
type PublishType string

const (
	PublishOpen      PublishType = "OPEN"
	PublishExclusive PublishType = "EXCLUSIVE"
)

// ReportStatus captures the review lifecycle of a submitted report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusApproved ReportStatus = "APPROVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// Visibility is the publication decision for a report at a point in time.
type Visibility string

const (
	VisibleToAll        Visibility = "VISIBLE_TO_ALL"
	VisibleToPickerOnly Visibility = "VISIBLE_TO_ORIGIN_PICKER_ONLY"
	PendingReview       Visibility = "PENDING_REVIEW"
)

// Report is an informant's submitted tip.
type Report struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Content     string       `db:"content" json:"content"`
	Category    string       `db:"category" json:"category"`
	Region      *string      `db:"region" json:"region,omitempty"`
	PublishType PublishType  `db:"publish_type" json:"publish_type"`
	Status      ReportStatus `db:"status" json:"status"`
	IsAnonymous bool         `db:"is_anonymous" json:"is_anonymous"`
	EmbargoEnds *time.Time   `db:"embargo_ends" json:"embargo_ends,omitempty"`
	AuthorID    string       `db:"author_id" json:"author_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// ReportWithAuthor joins the author's display fields onto a report row.
type ReportWithAuthor struct {
	Report
	AuthorName  string `db:"author_name" json:"author_name"`
	AuthorEmail string `db:"author_email" json:"author_email"`
}

// Visibility computes the publication decision for the report at the given
// instant. Pure; callable per request and used by the sweeper as its
// eligibility predicate. An expired-but-unswept exclusive is treated as open
// so readers never depend on the sweeper having run.
func (r Report) Visibility(now time.Time) Visibility {
	if r.PublishType == PublishExclusive && r.EmbargoEnds != nil && r.EmbargoEnds.After(now) {
		return VisibleToPickerOnly
	}
	if r.Status == ReportStatusPending {
		return PendingReview
	}
	return VisibleToAll
}

// Embargoed reports true while an exclusive report's window is still open.
func (r Report) Embargoed(now time.Time) bool {
	return r.PublishType == PublishExclusive && r.EmbargoEnds != nil && r.EmbargoEnds.After(now)
}

// ReportFilter captures list criteria for the feed and the admin queue.
type ReportFilter struct {
	Status      *ReportStatus
	PublishType *PublishType
	Category    string
	Region      string
	Page        int
	PageSize    int
}

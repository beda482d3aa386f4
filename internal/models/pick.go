package models

import "time"

// Pick records a journalist's claim of intent to pursue a report. The
// Exclusive flag is denormalized from the report at claim time so the store
// can enforce the single-claim rule with a partial unique index on
// picks(report_id) WHERE exclusive.
type Pick struct {
	ID         string    `db:"id" json:"id"`
	ReportID   string    `db:"report_id" json:"report_id"`
	ReporterID string    `db:"reporter_id" json:"reporter_id"`
	Exclusive  bool      `db:"exclusive" json:"exclusive"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

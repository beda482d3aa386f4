package dto

import "time"

// CreatePickRequest captures the POST /picks payload. The reporter identity
// comes from the session, never the body.
type CreatePickRequest struct {
	ReportID string `json:"reportId" validate:"required"`
}

// PickResponse is returned after a successful claim.
type PickResponse struct {
	ID         string    `json:"id"`
	ReportID   string    `json:"report_id"`
	ReporterID string    `json:"reporter_id"`
	Exclusive  bool      `json:"exclusive"`
	CreatedAt  time.Time `json:"created_at"`
}

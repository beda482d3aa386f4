package dto

import (
	"time"

	"github.com/jeboro/jeboro-api/internal/models"
)

// SubmitReportRequest captures the POST /reports payload.
type SubmitReportRequest struct {
	Title       string             `json:"title" validate:"required,min=2"`
	Content     string             `json:"content" validate:"required,min=10"`
	Category    string             `json:"category" validate:"required"`
	Region      *string            `json:"region,omitempty"`
	PublishType models.PublishType `json:"publishType" validate:"required,oneof=OPEN EXCLUSIVE"`
	IsAnonymous bool               `json:"isAnonymous"`
}

// ReportListQuery captures GET /reports filters.
type ReportListQuery struct {
	Status      string `form:"status"`
	PublishType string `form:"publishType"`
	Category    string `form:"category"`
	Region      string `form:"region"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// ReportResponse is the feed projection of a report. Embargoed exclusive
// content is replaced with a placeholder and anonymous authors are redacted
// before this leaves the service layer.
type ReportResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Category    string              `json:"category"`
	Region      *string             `json:"region,omitempty"`
	PublishType models.PublishType  `json:"publish_type"`
	Status      models.ReportStatus `json:"status"`
	Visibility  models.Visibility   `json:"visibility"`
	EmbargoEnds *time.Time          `json:"embargo_ends,omitempty"`
	AuthorName  string              `json:"author_name"`
	AuthorEmail string              `json:"author_email,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// UpdateReportStatusRequest captures PATCH /admin/reports/:id/status.
type UpdateReportStatusRequest struct {
	Status models.ReportStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// SweepResponse is returned by the cron embargo endpoint.
type SweepResponse struct {
	Success      bool  `json:"success"`
	UpdatedCount int64 `json:"updatedCount"`
}

package dto

import "time"

// UploadResponse is returned after storing an uploaded file.
type UploadResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

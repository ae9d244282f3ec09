package dto

import "time"

// ExportRequest asks for a seating chart export.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse returns the enqueued export job and its download token.
type ExportJobResponse struct {
	JobID     string    `json:"jobId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

package api

import "time"

// TokenRequest represents the request payload for participant token issuance
type TokenRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id"`
}

// TokenResponse represents the response payload for participant token issuance
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthResponse reports service status and live session count
type HealthResponse struct {
	Status   string   `json:"status"`
	Service  string   `json:"service"`
	Sessions int      `json:"sessions"`
	Kinds    []string `json:"kinds"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package types

import (
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/services/reasoning"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ParticipantResponse for lookup and create
type ParticipantResponse struct {
	BaseResponse
	Participant *models.Participant `json:"participant"`
}

// VideosResponse for the catalog listing
type VideosResponse struct {
	BaseResponse
	Videos []models.Video `json:"videos"`
	Count  int            `json:"count"`
}

// SessionResponse wraps a session snapshot
type SessionResponse struct {
	BaseResponse
	Session *session.Snapshot `json:"session"`
}

// SessionCreatedResponse pairs the resolved participant with the new session
type SessionCreatedResponse struct {
	BaseResponse
	Participant *models.Participant `json:"participant"`
	Session     *session.Snapshot   `json:"session"`
}

// SegmentsResponse for the reasoning pass
type SegmentsResponse struct {
	BaseResponse
	Video    string              `json:"video"`
	Segments []reasoning.Segment `json:"segments"`
}

// ProgressResponse for the reasoning counter
type ProgressResponse struct {
	BaseResponse
	Progress reasoning.Progress `json:"progress"`
}

// TokenResponse mirrors the provider's token exchange body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// UploadResponse for audio uploads
type UploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
}

// Package audio validates and stores recorded voice clips.
package audio

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// DefaultMaxBytes is the decoded size cap. Recordings are force-stopped
// client-side at the same limit.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// ErrTooLarge is returned when the decoded clip exceeds the size cap.
var ErrTooLarge = fmt.Errorf("audio exceeds size limit")

// ErrBadPayload is returned when the base64 payload cannot be decoded.
var ErrBadPayload = fmt.Errorf("invalid audio payload")

// Service decodes, validates and uploads voice clips.
type Service interface {
	// Upload decodes the base64 payload and stores it, returning the stored
	// filename.
	Upload(ctx context.Context, req UploadInput) (string, error)
}

// UploadInput is the raw upload-audio request body.
type UploadInput struct {
	AudioData     string `json:"audioData" binding:"required"`
	Filename      string `json:"filename"`
	ParticipantID int    `json:"participantId" binding:"required"`
	VideoName     string `json:"videoName"`
}

// ServiceImpl uploads through any sheets.AudioStore (the Drive-backed gateway
// in production, the in-memory gateway in tests and the tutorial).
type ServiceImpl struct {
	uploader sheets.AudioStore
	maxBytes int64
	now      func() time.Time
}

// NewService creates an audio intake service. maxBytes <= 0 uses
// DefaultMaxBytes.
func NewService(uploader sheets.AudioStore, maxBytes int64) *ServiceImpl {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &ServiceImpl{uploader: uploader, maxBytes: maxBytes, now: time.Now}
}

// Upload decodes and stores the clip. A missing filename is derived from the
// participant, video and onomatopoeia embedded in the request.
func (s *ServiceImpl) Upload(ctx context.Context, req UploadInput) (string, error) {
	data, err := Decode(req.AudioData)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, len(data), s.maxBytes)
	}

	filename := req.Filename
	if filename == "" {
		filename = Filename(req.ParticipantID, req.VideoName, "", s.now())
	}

	return s.uploader.UploadAudio(ctx, sheets.UploadRequest{
		Data:          data,
		Filename:      filename,
		ParticipantID: req.ParticipantID,
		VideoName:     req.VideoName,
	})
}

// Decode strips an optional data-URL prefix and base64-decodes the payload.
func Decode(payload string) ([]byte, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return data, nil
}

// Filename builds <participant>_<video-sans-extension>_<word>_<timestamp>.webm.
// Non-alphanumeric runes in the onomatopoeia become underscores so free-text
// input cannot break the name.
func Filename(participantID int, videoName, onomatopoeia string, at time.Time) string {
	video := strings.TrimSuffix(videoName, ".mp4")
	word := sanitize(onomatopoeia)
	return fmt.Sprintf("%d_%s_%s_%s.webm", participantID, video, word, models.Timestamp(at))
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

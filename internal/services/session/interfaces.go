// Package session drives one participant through the annotation pass: pick a
// video, answer yes/no, capture a time range, save, advance.
package session

import (
	"context"
	"errors"

	"github.com/movelab/onomatopoeia-api/internal/models"
)

// State is the wizard's position for the current video.
type State string

const (
	// StateAwaitingYesNo means a video is selected and the participant has
	// not yet said whether it has an onomatopoeia.
	StateAwaitingYesNo State = "awaiting_yes_no"

	// StateInputOpen means the participant answered yes and the input form
	// is open.
	StateInputOpen State = "input_open"

	// StateTimesCaptured means both playback positions are captured.
	StateTimesCaptured State = "times_captured"

	// StateSaved means an annotation was just written for the current video.
	StateSaved State = "saved"

	// StateNoResponseSaved means the participant answered no for the current
	// video.
	StateNoResponseSaved State = "no_response_saved"

	// StateComplete means every catalog video has at least one row.
	StateComplete State = "complete"
)

var (
	// ErrSessionNotFound is returned for unknown or logged-out session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTransition is returned when an operation does not apply in
	// the session's current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")

	// ErrValidation wraps input problems: empty onomatopoeia, missing times.
	ErrValidation = errors.New("validation failed")
)

// SaveInput carries the annotation form contents at save time.
type SaveInput struct {
	Onomatopoeia string `json:"onomatopoeia"`
	// AudioData is an optional base64 voice clip; upload failure degrades to
	// a text-only annotation.
	AudioData string `json:"audioData,omitempty"`
}

// Snapshot is the observable session state returned by every operation.
type Snapshot struct {
	SessionID  string              `json:"sessionId"`
	State      State               `json:"state"`
	Video      string              `json:"video"`
	VideoIndex int                 `json:"videoIndex"`
	VideoCount int                 `json:"videoCount"`
	StartTime  *float64            `json:"startTime,omitempty"`
	EndTime    *float64            `json:"endTime,omitempty"`
	Saved      []models.Annotation `json:"saved"`
	Completed  bool                `json:"completed"`
	Message    string              `json:"message,omitempty"`
}

// Service defines the annotation session operations.
type Service interface {
	// Create starts a session for the participant, loading their prior rows
	// and selecting the first catalog video.
	Create(ctx context.Context, participant *models.Participant) (*Snapshot, error)

	// Select jumps to the named catalog video and resets transient input.
	Select(ctx context.Context, sessionID, video string) (*Snapshot, error)

	// AnswerYes opens the annotation input form.
	AnswerYes(ctx context.Context, sessionID string) (*Snapshot, error)

	// AnswerNo writes the sentinel row (unless the video already has a row)
	// and advances.
	AnswerNo(ctx context.Context, sessionID string) (*Snapshot, error)

	// CaptureStart records the playback position as the range start.
	CaptureStart(ctx context.Context, sessionID string, position float64) (*Snapshot, error)

	// CaptureEnd records the playback position as the range end.
	CaptureEnd(ctx context.Context, sessionID string, position float64) (*Snapshot, error)

	// Save validates and persists the annotation, then resets for the same
	// video so more annotations can follow.
	Save(ctx context.Context, sessionID string, input SaveInput) (*Snapshot, error)

	// Advance moves to the next video, or runs the completion check at the
	// end of the catalog.
	Advance(ctx context.Context, sessionID string) (*Snapshot, error)

	// State returns the current snapshot without changing anything.
	State(ctx context.Context, sessionID string) (*Snapshot, error)

	// Logout drops the session and clears its hand-off state.
	Logout(ctx context.Context, sessionID string) error
}

// Package reasoning runs the second pass: collecting free-text justification
// for every real annotation saved in the first pass.
package reasoning

import (
	"context"
	"errors"

	"github.com/movelab/onomatopoeia-api/internal/models"
)

// MinLength is the shortest accepted reasoning text, in runes.
const MinLength = 5

// ErrTooShort is returned when the reasoning text is under MinLength.
var ErrTooShort = errors.New("reasoning text too short")

// SaveRequest identifies the annotation (by synthetic row id, with the
// composite key as fallback for legacy rows) and carries the reasoning text.
type SaveRequest struct {
	RowID        string  `json:"rowId"`
	Video        string  `json:"video"`
	Onomatopoeia string  `json:"onomatopoeia"`
	StartTime    float64 `json:"startTime"`
	EndTime      float64 `json:"endTime"`
	Reasoning    string  `json:"reasoning"`
}

// Segment is one annotation awaiting (or holding) reasoning, with the
// playback window the participant reviews.
type Segment struct {
	Annotation models.Annotation `json:"annotation"`
	Start      float64           `json:"start"`
	End        float64           `json:"end"`
	Done       bool              `json:"done"`
}

// Progress is the completed/total counter across all real annotations.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Service defines the reasoning pass operations.
type Service interface {
	// Segments returns the video's annotations in saved order, sentinels
	// dropped, each flagged done when it already has reasoning.
	Segments(ctx context.Context, participantID int, video string) ([]Segment, error)

	// Save updates the matched row's reasoning cell. A missing match is
	// logged and swallowed; the annotation pass may have been edited since.
	Save(ctx context.Context, participantID int, req SaveRequest) error

	// Progress counts annotations with reasoning across the whole set.
	Progress(ctx context.Context, participantID int) (Progress, error)
}

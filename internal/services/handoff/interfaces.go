// Package handoff persists per-participant state between the survey and
// reasoning passes.
package handoff

import (
	"context"
	"errors"

	"github.com/movelab/onomatopoeia-api/internal/models"
)

// ErrNotFound is returned by Load when the participant has no stored state.
var ErrNotFound = errors.New("handoff state not found")

// Snapshot is the typed view of one participant's hand-off state.
type Snapshot struct {
	Participant     *models.Participant `json:"participant"`
	Annotations     []models.Annotation `json:"annotations"`
	Reasoning       []models.Annotation `json:"reasoning"`
	SurveyCompleted bool                `json:"surveyCompleted"`
}

// Service defines the hand-off store.
type Service interface {
	// Save upserts the participant's snapshot.
	Save(ctx context.Context, snapshot Snapshot) error

	// Load returns the participant's snapshot or ErrNotFound.
	Load(ctx context.Context, participantID int) (*Snapshot, error)

	// SetCompleted flips the survey-completed flag.
	SetCompleted(ctx context.Context, participantID int, completed bool) error

	// Clear removes the participant's state. Called on logout.
	Clear(ctx context.Context, participantID int) error
}

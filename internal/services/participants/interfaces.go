package participants

import (
	"context"
	"errors"

	"github.com/movelab/onomatopoeia-api/internal/models"
)

// ErrNotFound is returned by Lookup when no row matches the email.
var ErrNotFound = errors.New("participant not found")

// RegistrationFields are the participant-supplied signup values.
type RegistrationFields struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	MovementPractice string `json:"movementPractice"`
	NativeLanguage   string `json:"nativeLanguage"`
}

// Service defines the participant store. There are no update or delete
// operations; a participant row is immutable once written.
type Service interface {
	// Lookup finds a participant by exact email match.
	Lookup(ctx context.Context, email string) (*models.Participant, error)

	// Create appends a new participant row, assigning the next id.
	Create(ctx context.Context, fields RegistrationFields) (*models.Participant, error)
}

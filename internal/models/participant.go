package models

import (
	"fmt"
	"strconv"
)

// Participant is a registered survey participant. Rows live in the
// Participants sheet: participantId, email, name, age, gender,
// movementPractice, nativeLanguage, registrationTimestamp.
type Participant struct {
	ID               int    `json:"participantId"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	MovementPractice string `json:"movementPractice"`
	NativeLanguage   string `json:"nativeLanguage"`
	RegisteredAt     string `json:"registrationTimestamp"`
}

// DisplayName returns the name shown in the UI, falling back to the email.
func (p Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// ToRow encodes the participant as a positional sheet row. An empty movement
// practice is stored as the literal "null", matching the historical data.
func (p Participant) ToRow() []any {
	practice := p.MovementPractice
	if practice == "" {
		practice = Sentinel
	}
	return []any{
		p.ID,
		p.Email,
		p.Name,
		p.Age,
		p.Gender,
		practice,
		p.NativeLanguage,
		p.RegisteredAt,
	}
}

// ParseParticipantRow decodes a sheet row using the header row's column
// positions. Missing optional columns decode to zero values.
func ParseParticipantRow(header map[string]int, row []string) (Participant, error) {
	cell := func(name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	idText := cell("participantId")
	id, err := strconv.Atoi(idText)
	if err != nil {
		return Participant{}, fmt.Errorf("parsing participant id %q: %w", idText, err)
	}

	age, _ := strconv.Atoi(cell("age"))

	return Participant{
		ID:               id,
		Email:            cell("email"),
		Name:             cell("name"),
		Age:              age,
		Gender:           cell("gender"),
		MovementPractice: cell("movementPractice"),
		NativeLanguage:   cell("nativeLanguage"),
		RegisteredAt:     cell("registrationTimestamp"),
	}, nil
}

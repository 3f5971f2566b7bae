package participants

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// ServiceImpl implements the Service interface over the participant sheet.
type ServiceImpl struct {
	gateway         sheets.Gateway
	sheetName       string
	caseInsensitive bool
	now             func() time.Time
}

// Config holds participant store settings.
type Config struct {
	SheetName            string
	CaseInsensitiveEmail bool
}

// NewService creates a participant store over the given gateway.
func NewService(gateway sheets.Gateway, cfg Config) *ServiceImpl {
	if cfg.SheetName == "" {
		cfg.SheetName = "Participants"
	}
	return &ServiceImpl{
		gateway:         gateway,
		sheetName:       cfg.SheetName,
		caseInsensitive: cfg.CaseInsensitiveEmail,
		now:             time.Now,
	}
}

// Lookup finds a participant by exact email match against the email column.
func (s *ServiceImpl) Lookup(ctx context.Context, email string) (*models.Participant, error) {
	header, rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	emailIdx, ok := header["email"]
	if !ok {
		return nil, fmt.Errorf("email column not found in %s sheet", s.sheetName)
	}

	for _, row := range rows {
		if emailIdx >= len(row) {
			continue
		}
		if !s.emailEquals(row[emailIdx], email) {
			continue
		}
		p, err := models.ParseParticipantRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("decoding participant row: %w", err)
		}
		return &p, nil
	}

	return nil, ErrNotFound
}

// Create assigns id = 1 + max existing id and appends the new row. The
// read-then-append is not atomic; two racing signups can observe the same max
// id. The sheet has no uniqueness to stop them.
func (s *ServiceImpl) Create(ctx context.Context, fields RegistrationFields) (*models.Participant, error) {
	if fields.Email == "" {
		return nil, fmt.Errorf("email is required")
	}

	header, rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idIdx, ok := header["participantId"]
	if !ok {
		return nil, fmt.Errorf("participantId column not found in %s sheet", s.sheetName)
	}

	maxID := 0
	for _, row := range rows {
		if idIdx >= len(row) {
			continue
		}
		if id, err := strconv.Atoi(row[idIdx]); err == nil && id > maxID {
			maxID = id
		}
	}

	participant := models.Participant{
		ID:               maxID + 1,
		Email:            fields.Email,
		Name:             fields.Name,
		Age:              fields.Age,
		Gender:           fields.Gender,
		MovementPractice: fields.MovementPractice,
		NativeLanguage:   fields.NativeLanguage,
		RegisteredAt:     models.Timestamp(s.now()),
	}

	if err := s.gateway.AppendRow(ctx, s.sheetName, participant.ToRow()); err != nil {
		return nil, fmt.Errorf("saving participant: %w", err)
	}

	return &participant, nil
}

// load fetches the sheet and splits the header row from the data rows.
func (s *ServiceImpl) load(ctx context.Context) (map[string]int, [][]string, error) {
	rows, err := s.gateway.GetRows(ctx, s.sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s sheet: %w", s.sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s sheet is empty or not found", s.sheetName)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[name] = i
	}
	return header, rows[1:], nil
}

func (s *ServiceImpl) emailEquals(a, b string) bool {
	if s.caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

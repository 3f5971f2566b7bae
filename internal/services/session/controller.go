package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/services/participants"
)

// ErrSurveyNotCompleted is returned when a page requires a finished annotation
// pass first.
var ErrSurveyNotCompleted = errors.New("survey not completed")

// PageCapabilities is what varies between the survey and reasoning entry
// points: how a participant's arrival is prepared, which field identifies them
// on screen, and what extra cleanup logout needs.
type PageCapabilities interface {
	// Initialize prepares the page for the participant, returning the
	// session snapshot when the page runs the annotation machine.
	Initialize(ctx context.Context, participant *models.Participant) (*Snapshot, error)

	// OnLanguageChange reacts to a locale switch.
	OnLanguageChange(lang string)

	// ParticipantDisplayKey names the participant field shown in the header.
	ParticipantDisplayKey() string

	// LogoutCleanup runs page-specific teardown after the shared logout.
	LogoutCleanup(ctx context.Context, participantID int) error
}

// Controller composes the shared login/logout flow with per-page capabilities.
type Controller struct {
	caps         PageCapabilities
	participants participants.Service
	machine      Service
	log          *logger.Logger
}

// NewController creates a page controller.
func NewController(caps PageCapabilities, store participants.Service, machine Service, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{caps: caps, participants: store, machine: machine, log: log}
}

// Enter looks the participant up by email and initializes the page for them.
func (c *Controller) Enter(ctx context.Context, email string) (*models.Participant, *Snapshot, error) {
	participant, err := c.participants.Lookup(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	snap, err := c.caps.Initialize(ctx, participant)
	if err != nil {
		return nil, nil, err
	}
	return participant, snap, nil
}

// SetLanguage forwards a locale switch to the page.
func (c *Controller) SetLanguage(lang string) {
	c.caps.OnLanguageChange(lang)
}

// DisplayName resolves the header label for the participant using the page's
// display key.
func (c *Controller) DisplayName(p *models.Participant) string {
	if c.caps.ParticipantDisplayKey() == "email" {
		return p.Email
	}
	return p.DisplayName()
}

// Logout ends the machine session and runs the page's extra cleanup.
func (c *Controller) Logout(ctx context.Context, sessionID string, participantID int) error {
	if sessionID != "" {
		if err := c.machine.Logout(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return err
		}
	}
	return c.caps.LogoutCleanup(ctx, participantID)
}

// SurveyPage runs the annotation machine for arriving participants.
type SurveyPage struct {
	Machine Service
	Log     *logger.Logger
}

func (p *SurveyPage) Initialize(ctx context.Context, participant *models.Participant) (*Snapshot, error) {
	return p.Machine.Create(ctx, participant)
}

func (p *SurveyPage) OnLanguageChange(lang string) {
	if p.Log != nil {
		p.Log.Debug("survey language changed", "lang", lang)
	}
}

func (p *SurveyPage) ParticipantDisplayKey() string { return "name" }

func (p *SurveyPage) LogoutCleanup(context.Context, int) error { return nil }

// ReasoningPage gates entry on a completed annotation pass and clears the
// hand-off state on logout.
type ReasoningPage struct {
	Handoff handoff.Service
	Log     *logger.Logger
}

func (p *ReasoningPage) Initialize(ctx context.Context, participant *models.Participant) (*Snapshot, error) {
	snap, err := p.Handoff.Load(ctx, participant.ID)
	if errors.Is(err, handoff.ErrNotFound) {
		return nil, ErrSurveyNotCompleted
	}
	if err != nil {
		return nil, fmt.Errorf("loading handoff state: %w", err)
	}
	if !snap.SurveyCompleted {
		return nil, ErrSurveyNotCompleted
	}
	return nil, nil
}

func (p *ReasoningPage) OnLanguageChange(lang string) {
	if p.Log != nil {
		p.Log.Debug("reasoning language changed", "lang", lang)
	}
}

func (p *ReasoningPage) ParticipantDisplayKey() string { return "email" }

func (p *ReasoningPage) LogoutCleanup(ctx context.Context, participantID int) error {
	return p.Handoff.Clear(ctx, participantID)
}

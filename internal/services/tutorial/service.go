// Package tutorial replays the annotation wizard against local mock data for
// onboarding. It runs the real session machine; only the gateway is fake, so
// nothing a newcomer does can touch the live sheet.
package tutorial

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/services/catalog"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// Step names one scripted action in the walkthrough.
type Step string

const (
	StepAnswerYes    Step = "answer_yes"
	StepCaptureStart Step = "capture_start"
	StepCaptureEnd   Step = "capture_end"
	StepSave         Step = "save"
	StepAdvance      Step = "advance"
	StepAnswerNo     Step = "answer_no"
)

// script is the fixed walkthrough order: annotate the first demo video, then
// answer "no" for the second, which completes the session.
var script = []Step{
	StepAnswerYes,
	StepCaptureStart,
	StepCaptureEnd,
	StepSave,
	StepAdvance,
	StepAnswerNo,
}

// ErrWrongStep is returned when an action arrives out of script order.
var ErrWrongStep = errors.New("step out of order")

// ErrWalkthroughNotFound is returned for unknown walkthrough ids.
var ErrWalkthroughNotFound = errors.New("walkthrough not found")

// StepInput carries the parameters a step may need.
type StepInput struct {
	Step         Step    `json:"step"`
	Position     float64 `json:"position,omitempty"`
	Onomatopoeia string  `json:"onomatopoeia,omitempty"`
}

// Progress is the walkthrough's observable state.
type Progress struct {
	WalkthroughID string            `json:"walkthroughId"`
	NextStep      Step              `json:"nextStep,omitempty"`
	Finished      bool              `json:"finished"`
	Session       *session.Snapshot `json:"session"`
}

// Service defines the tutorial walkthrough.
type Service interface {
	// Start begins a walkthrough and returns the first expected step.
	Start(ctx context.Context) (*Progress, error)

	// Do executes the next scripted step. Out-of-order steps are rejected.
	Do(ctx context.Context, walkthroughID string, input StepInput) (*Progress, error)
}

// ServiceImpl runs walkthroughs on a machine wired to an in-memory gateway
// seeded with two demo videos.
type ServiceImpl struct {
	machine *session.Machine
	gateway *sheets.MemoryGateway

	mu    sync.Mutex
	walks map[string]*walkthrough
}

type walkthrough struct {
	sessionID string
	cursor    int
}

// demoCatalogSheet is the seeded video list the walkthrough runs against.
const demoCatalogSheet = "SelectedVideos"

// NewService creates a tutorial service with its own isolated gateway.
func NewService(log *logger.Logger) *ServiceImpl {
	gw := sheets.NewMemoryGateway()
	gw.Seed("Onomatopoeia", [][]string{{
		"participantId", "participantName", "video", "onomatopoeia", "startTime", "endTime",
		"answeredTimestamp", "hasAudio", "audioFileName", "reasoning", "rowId",
	}})
	gw.Seed(demoCatalogSheet, [][]string{{"videoName"}, {"demo1"}, {"demo2"}})

	cat := catalog.NewService(gw, nil, log, catalog.Config{SheetName: demoCatalogSheet})
	machine := session.NewMachine(gw, gw, cat, nil, log, session.Config{})

	return &ServiceImpl{
		machine: machine,
		gateway: gw,
		walks:   make(map[string]*walkthrough),
	}
}

func (s *ServiceImpl) Start(ctx context.Context) (*Progress, error) {
	demo := &models.Participant{ID: 1, Email: "tutorial@example.com", Name: "Tutorial"}
	snap, err := s.machine.Create(ctx, demo)
	if err != nil {
		return nil, fmt.Errorf("starting walkthrough: %w", err)
	}

	w := &walkthrough{sessionID: snap.SessionID}
	s.mu.Lock()
	s.walks[snap.SessionID] = w
	s.mu.Unlock()

	return s.progress(w, snap), nil
}

func (s *ServiceImpl) Do(ctx context.Context, walkthroughID string, input StepInput) (*Progress, error) {
	s.mu.Lock()
	w, ok := s.walks[walkthroughID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrWalkthroughNotFound
	}

	if w.cursor >= len(script) {
		return nil, fmt.Errorf("%w: walkthrough already finished", ErrWrongStep)
	}
	expected := script[w.cursor]
	if input.Step != expected {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongStep, expected, input.Step)
	}

	snap, err := s.run(ctx, w.sessionID, input)
	if err != nil {
		return nil, err
	}

	w.cursor++
	return s.progress(w, snap), nil
}

func (s *ServiceImpl) run(ctx context.Context, sessionID string, input StepInput) (*session.Snapshot, error) {
	switch input.Step {
	case StepAnswerYes:
		return s.machine.AnswerYes(ctx, sessionID)
	case StepCaptureStart:
		return s.machine.CaptureStart(ctx, sessionID, input.Position)
	case StepCaptureEnd:
		return s.machine.CaptureEnd(ctx, sessionID, input.Position)
	case StepSave:
		return s.machine.Save(ctx, sessionID, session.SaveInput{Onomatopoeia: input.Onomatopoeia})
	case StepAdvance:
		return s.machine.Advance(ctx, sessionID)
	case StepAnswerNo:
		return s.machine.AnswerNo(ctx, sessionID)
	default:
		return nil, fmt.Errorf("%w: unknown step %q", ErrWrongStep, input.Step)
	}
}

func (s *ServiceImpl) progress(w *walkthrough, snap *session.Snapshot) *Progress {
	p := &Progress{
		WalkthroughID: w.sessionID,
		Finished:      w.cursor >= len(script),
		Session:       snap,
	}
	if !p.Finished {
		p.NextStep = script[w.cursor]
	}
	return p
}

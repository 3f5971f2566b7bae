package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// reasoningColumn is the sheet column holding reasoning text.
const reasoningColumn = "J"

// ServiceImpl reads the annotation set from the hand-off store and writes
// reasoning back to the sheet, cell by cell.
type ServiceImpl struct {
	gateway   sheets.Gateway
	handoff   handoff.Service
	log       *logger.Logger
	sheetName string
}

// Config holds reasoning pass settings.
type Config struct {
	SheetName string
}

// NewService creates a reasoning pass service.
func NewService(gateway sheets.Gateway, ho handoff.Service, log *logger.Logger, cfg Config) *ServiceImpl {
	if cfg.SheetName == "" {
		cfg.SheetName = "Onomatopoeia"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ServiceImpl{gateway: gateway, handoff: ho, log: log, sheetName: cfg.SheetName}
}

// Segments returns the video's real annotations with the sheet's current
// reasoning merged in.
func (s *ServiceImpl) Segments(ctx context.Context, participantID int, video string) ([]Segment, error) {
	annotations, err := s.annotations(ctx, participantID)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0)
	for _, a := range annotations {
		if a.Video != video {
			continue
		}
		segments = append(segments, Segment{
			Annotation: a,
			Start:      a.StartTime,
			End:        a.EndTime,
			Done:       a.Reasoning != "",
		})
	}
	return segments, nil
}

// Save validates the text and updates the matched row's reasoning cell, then
// mirrors the change into the hand-off store.
func (s *ServiceImpl) Save(ctx context.Context, participantID int, req SaveRequest) error {
	text := strings.TrimSpace(req.Reasoning)
	if utf8.RuneCountInString(text) < MinLength {
		return fmt.Errorf("%w: need at least %d characters", ErrTooShort, MinLength)
	}

	target := models.Annotation{
		RowID:         req.RowID,
		ParticipantID: participantID,
		Video:         req.Video,
		Onomatopoeia:  req.Onomatopoeia,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	}

	rowNum, err := s.findRow(ctx, target)
	if err != nil {
		return err
	}
	if rowNum == 0 {
		// The row may have been edited or removed since the first pass.
		// The source treats this as a partial failure, not an error.
		s.log.Warn("no matching annotation row for reasoning update",
			"participant", participantID, "video", req.Video, "rowId", req.RowID)
		return nil
	}

	rangeAddr := fmt.Sprintf("%s!%s%d", s.sheetName, reasoningColumn, rowNum)
	if err := s.gateway.UpdateCell(ctx, rangeAddr, text); err != nil {
		return fmt.Errorf("updating reasoning cell: %w", err)
	}

	s.mirrorToHandoff(ctx, participantID, target, text)
	return nil
}

// Progress counts completed reasoning across every real annotation.
func (s *ServiceImpl) Progress(ctx context.Context, participantID int) (Progress, error) {
	annotations, err := s.annotations(ctx, participantID)
	if err != nil {
		return Progress{}, err
	}

	p := Progress{Total: len(annotations)}
	for _, a := range annotations {
		if a.Reasoning != "" {
			p.Completed++
		}
	}
	return p, nil
}

// annotations loads the participant's real annotations from the hand-off
// store, gated on a completed survey, with sheet reasoning merged in.
func (s *ServiceImpl) annotations(ctx context.Context, participantID int) ([]models.Annotation, error) {
	snapshot, err := s.handoff.Load(ctx, participantID)
	if errors.Is(err, handoff.ErrNotFound) {
		return nil, session.ErrSurveyNotCompleted
	}
	if err != nil {
		return nil, err
	}
	if !snapshot.SurveyCompleted {
		return nil, session.ErrSurveyNotCompleted
	}

	sheetRows, err := s.sheetAnnotations(ctx, participantID)
	if err != nil {
		// The hand-off copy still serves; reasoning text may be stale.
		s.log.Warn("reading sheet for reasoning merge failed", "error", err)
	}

	out := make([]models.Annotation, 0, len(snapshot.Annotations))
	for _, a := range snapshot.Annotations {
		if a.IsSentinel() {
			continue
		}
		for _, remote := range sheetRows {
			if a.MatchesKey(remote) {
				a.Reasoning = remote.Reasoning
				break
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *ServiceImpl) sheetAnnotations(ctx context.Context, participantID int) ([]models.Annotation, error) {
	rows, err := s.gateway.GetRows(ctx, s.sheetName)
	if err != nil {
		return nil, err
	}

	var out []models.Annotation
	for i, row := range rows {
		if i == 0 {
			continue
		}
		a, err := models.ParseAnnotationRow(row)
		if err != nil {
			continue
		}
		if a.ParticipantID == participantID {
			out = append(out, a)
		}
	}
	return out, nil
}

// findRow returns the 1-based sheet row number of the first row matching the
// target's key, or 0 when nothing matches.
func (s *ServiceImpl) findRow(ctx context.Context, target models.Annotation) (int, error) {
	rows, err := s.gateway.GetRows(ctx, s.sheetName)
	if err != nil {
		return 0, fmt.Errorf("reading %s sheet: %w", s.sheetName, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		a, err := models.ParseAnnotationRow(row)
		if err != nil {
			continue
		}
		if a.MatchesKey(target) {
			return i + 1, nil
		}
	}
	return 0, nil
}

// mirrorToHandoff copies the saved text into the stored reasoning set so a
// reload shows it without another sheet read. Best-effort.
func (s *ServiceImpl) mirrorToHandoff(ctx context.Context, participantID int, target models.Annotation, text string) {
	snapshot, err := s.handoff.Load(ctx, participantID)
	if err != nil {
		return
	}

	updated := false
	for i, a := range snapshot.Reasoning {
		if a.MatchesKey(target) {
			snapshot.Reasoning[i].Reasoning = text
			updated = true
			break
		}
	}
	if !updated {
		target.Reasoning = text
		snapshot.Reasoning = append(snapshot.Reasoning, target)
	}

	if err := s.handoff.Save(ctx, *snapshot); err != nil {
		s.log.Warn("mirroring reasoning to handoff failed", "error", err)
	}
}

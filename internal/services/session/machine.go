package session

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/movelab/onomatopoeia-api/internal/logger"
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/services/audio"
	"github.com/movelab/onomatopoeia-api/internal/services/catalog"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// Machine runs annotation sessions against a gateway. The tutorial runs the
// same machine against the in-memory gateway; the live survey runs it against
// the sheet.
type Machine struct {
	gateway  sheets.Gateway
	uploader sheets.AudioStore
	catalog  catalog.Service
	handoff  handoff.Service
	log      *logger.Logger

	sheetName     string
	maxAudioBytes int64
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// Config holds session machine settings.
type Config struct {
	SheetName string

	// MaxAudioBytes caps decoded inline clips; <= 0 uses the intake default.
	MaxAudioBytes int64
}

// NewMachine creates a session machine. uploader and handoff may be nil; audio
// then degrades to text-only and snapshots are not persisted between passes.
func NewMachine(gateway sheets.Gateway, uploader sheets.AudioStore, cat catalog.Service, ho handoff.Service, log *logger.Logger, cfg Config) *Machine {
	if cfg.SheetName == "" {
		cfg.SheetName = "Onomatopoeia"
	}
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = audio.DefaultMaxBytes
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Machine{
		gateway:       gateway,
		uploader:      uploader,
		catalog:       cat,
		handoff:       ho,
		log:           log,
		sheetName:     cfg.SheetName,
		maxAudioBytes: cfg.MaxAudioBytes,
		now:           time.Now,
		sessions:      make(map[string]*session),
	}
}

// session is one participant's in-flight pass. annotations mirrors the
// participant's sheet rows; a row is appended here only after the remote
// append succeeded.
type session struct {
	mu sync.Mutex

	id          string
	participant models.Participant
	catalog     []models.Video

	index     int
	state     State
	start     *float64
	end       *float64
	message   string
	completed bool

	annotations []models.Annotation
}

func (m *Machine) Create(ctx context.Context, participant *models.Participant) (*Snapshot, error) {
	if participant == nil || participant.ID == 0 {
		return nil, fmt.Errorf("%w: participant identity missing", ErrValidation)
	}

	videos, err := m.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("no videos available")
	}

	annotations, err := m.loadAnnotations(ctx, participant.ID)
	if err != nil {
		return nil, err
	}

	s := &session{
		id:          uuid.New().String(),
		participant: *participant,
		catalog:     videos,
		state:       StateAwaitingYesNo,
		annotations: annotations,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.persistHandoff(ctx, s)
	return m.snapshot(s), nil
}

func (m *Machine) Select(ctx context.Context, sessionID, video string) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.catalog {
		if v.Name == video {
			s.index = i
			s.resetInput()
			s.state = StateAwaitingYesNo
			return m.snapshot(s), nil
		}
	}
	return nil, fmt.Errorf("%w: video %q not in catalog", ErrValidation, video)
}

func (m *Machine) AnswerYes(_ context.Context, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAwaitingYesNo, StateSaved, StateNoResponseSaved:
		s.resetInput()
		s.state = StateInputOpen
		return m.snapshot(s), nil
	default:
		return nil, fmt.Errorf("%w: answer in state %s", ErrInvalidTransition, s.state)
	}
}

// AnswerNo writes a sentinel row unless the current video already has any row,
// then advances. The guard keeps repeat answers down to one sentinel per video.
func (m *Machine) AnswerNo(ctx context.Context, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAwaitingYesNo, StateSaved, StateNoResponseSaved:
	default:
		return nil, fmt.Errorf("%w: answer in state %s", ErrInvalidTransition, s.state)
	}

	video := s.currentVideo()
	if len(s.savedFor(video)) == 0 {
		row := models.NewSentinelAnnotation(
			s.participant.ID, s.participant.DisplayName(), video, models.Timestamp(m.now()),
		)
		if err := m.gateway.AppendRow(ctx, m.sheetName, row.ToRow()); err != nil {
			return nil, fmt.Errorf("saving no-response row: %w", err)
		}
		s.annotations = append(s.annotations, row)
		m.persistHandoff(ctx, s)
	}

	s.state = StateNoResponseSaved
	m.advance(ctx, s)
	return m.snapshot(s), nil
}

func (m *Machine) CaptureStart(_ context.Context, sessionID string, position float64) (*Snapshot, error) {
	return m.capture(sessionID, position, true)
}

func (m *Machine) CaptureEnd(_ context.Context, sessionID string, position float64) (*Snapshot, error) {
	return m.capture(sessionID, position, false)
}

func (m *Machine) capture(sessionID string, position float64, isStart bool) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInputOpen && s.state != StateTimesCaptured {
		return nil, fmt.Errorf("%w: capture in state %s", ErrInvalidTransition, s.state)
	}

	// Playback positions are kept at two decimals, matching the player's
	// display precision. End before start is accepted; a point-in-time cue
	// is a legitimate capture.
	rounded := math.Round(position*100) / 100
	if isStart {
		s.start = &rounded
	} else {
		s.end = &rounded
	}

	if s.start != nil && s.end != nil {
		s.state = StateTimesCaptured
	}
	return m.snapshot(s), nil
}

func (m *Machine) Save(ctx context.Context, sessionID string, input SaveInput) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInputOpen && s.state != StateTimesCaptured {
		return nil, fmt.Errorf("%w: save in state %s", ErrInvalidTransition, s.state)
	}

	word := strings.TrimSpace(input.Onomatopoeia)
	if word == "" {
		return nil, fmt.Errorf("%w: onomatopoeia text is required", ErrValidation)
	}
	if word == models.Sentinel {
		return nil, fmt.Errorf("%w: %q is a reserved value", ErrValidation, word)
	}
	if s.start == nil || s.end == nil {
		return nil, fmt.Errorf("%w: both start and end times must be captured", ErrValidation)
	}

	row := models.Annotation{
		RowID:           uuid.New().String(),
		ParticipantID:   s.participant.ID,
		ParticipantName: s.participant.DisplayName(),
		Video:           s.currentVideo(),
		Onomatopoeia:    word,
		StartTime:       *s.start,
		EndTime:         *s.end,
		AnsweredAt:      models.Timestamp(m.now()),
	}

	if input.AudioData != "" {
		row.HasAudio, row.AudioFileName = m.uploadAudio(ctx, s, input.AudioData, word)
	}

	if err := m.gateway.AppendRow(ctx, m.sheetName, row.ToRow()); err != nil {
		return nil, fmt.Errorf("saving annotation: %w", err)
	}
	s.annotations = append(s.annotations, row)
	m.persistHandoff(ctx, s)

	s.resetInput()
	s.state = StateSaved
	return m.snapshot(s), nil
}

func (m *Machine) Advance(ctx context.Context, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.advance(ctx, s)
	return m.snapshot(s), nil
}

func (m *Machine) State(_ context.Context, sessionID string) (*Snapshot, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.snapshot(s), nil
}

func (m *Machine) Logout(ctx context.Context, sessionID string) error {
	s, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if m.handoff != nil {
		if err := m.handoff.Clear(ctx, s.participant.ID); err != nil {
			return fmt.Errorf("clearing handoff state: %w", err)
		}
	}
	return nil
}

// uploadAudio is best-effort: a failed upload logs a warning and the
// annotation saves without audio.
func (m *Machine) uploadAudio(ctx context.Context, s *session, audioData, word string) (int, string) {
	if m.uploader == nil {
		return 0, ""
	}

	data, err := audio.Decode(audioData)
	if err != nil {
		m.log.Warn("audio decode failed, saving without audio", "error", err)
		return 0, ""
	}
	if int64(len(data)) > m.maxAudioBytes {
		m.log.Warn("audio clip over size limit, saving without audio",
			"bytes", len(data), "limit", m.maxAudioBytes)
		return 0, ""
	}

	filename := audio.Filename(s.participant.ID, s.currentVideo(), word, m.now())
	stored, err := m.uploader.UploadAudio(ctx, sheets.UploadRequest{
		Data:          data,
		Filename:      filename,
		ParticipantID: s.participant.ID,
		VideoName:     s.currentVideo(),
	})
	if err != nil {
		m.log.Warn("audio upload failed, saving without audio", "error", err)
		return 0, ""
	}
	return 1, stored
}

// advance moves to the next catalog video, or at the end checks whether every
// video has at least one row. Caller holds s.mu.
func (m *Machine) advance(ctx context.Context, s *session) {
	if s.index+1 < len(s.catalog) {
		s.index++
		s.resetInput()
		s.state = StateAwaitingYesNo
		return
	}

	for _, v := range s.catalog {
		if len(s.savedFor(v.Name)) == 0 {
			s.message = fmt.Sprintf("video %s has no response yet", v.Name)
			return
		}
	}

	s.completed = true
	s.state = StateComplete
	s.message = ""
	if m.handoff != nil {
		if err := m.handoff.SetCompleted(ctx, s.participant.ID, true); err != nil {
			m.log.Warn("marking survey completed failed", "error", err, "participant", s.participant.ID)
		}
	}
}

// loadAnnotations reads the sheet and keeps this participant's rows. Rows that
// fail to parse are skipped; legacy data contains hand-edited cells.
func (m *Machine) loadAnnotations(ctx context.Context, participantID int) ([]models.Annotation, error) {
	rows, err := m.gateway.GetRows(ctx, m.sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", m.sheetName, err)
	}

	var out []models.Annotation
	for i, row := range rows {
		if i == 0 {
			continue
		}
		a, err := models.ParseAnnotationRow(row)
		if err != nil {
			m.log.Warn("skipping unparseable annotation row", "row", i+1, "error", err)
			continue
		}
		if a.ParticipantID == participantID {
			out = append(out, a)
		}
	}
	return out, nil
}

// persistHandoff mirrors the session into the hand-off store so the reasoning
// pass can pick it up. Best-effort; the sheet already holds the data.
func (m *Machine) persistHandoff(ctx context.Context, s *session) {
	if m.handoff == nil {
		return
	}
	participant := s.participant
	err := m.handoff.Save(ctx, handoff.Snapshot{
		Participant:     &participant,
		Annotations:     append([]models.Annotation(nil), s.annotations...),
		SurveyCompleted: s.completed,
	})
	if err != nil {
		m.log.Warn("persisting handoff state failed", "error", err, "participant", s.participant.ID)
	}
}

func (m *Machine) lookup(sessionID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Machine) snapshot(s *session) *Snapshot {
	snap := &Snapshot{
		SessionID:  s.id,
		State:      s.state,
		Video:      s.currentVideo(),
		VideoIndex: s.index,
		VideoCount: len(s.catalog),
		Saved:      s.savedFor(s.currentVideo()),
		Completed:  s.completed,
		Message:    s.message,
	}
	if s.start != nil {
		v := *s.start
		snap.StartTime = &v
	}
	if s.end != nil {
		v := *s.end
		snap.EndTime = &v
	}
	return snap
}

func (s *session) currentVideo() string {
	if s.index < 0 || s.index >= len(s.catalog) {
		return ""
	}
	return s.catalog[s.index].Name
}

func (s *session) savedFor(video string) []models.Annotation {
	out := make([]models.Annotation, 0)
	for _, a := range s.annotations {
		if a.Video == video {
			out = append(out, a)
		}
	}
	return out
}

func (s *session) resetInput() {
	s.start = nil
	s.end = nil
	s.message = ""
}

package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movelab/onomatopoeia-api/internal/database"
	"github.com/movelab/onomatopoeia-api/internal/models"
)

// ServiceImpl stores snapshots in the local sqlite database, one row per
// participant.
type ServiceImpl struct {
	db *database.DB
}

// NewService creates a hand-off store over the given database.
func NewService(db *database.DB) *ServiceImpl {
	return &ServiceImpl{db: db}
}

// Save upserts the snapshot keyed by participant id.
func (s *ServiceImpl) Save(ctx context.Context, snapshot Snapshot) error {
	if snapshot.Participant == nil {
		return fmt.Errorf("snapshot has no participant")
	}

	state := models.HandoffState{
		ParticipantID:   snapshot.Participant.ID,
		SurveyCompleted: snapshot.SurveyCompleted,
	}

	var err error
	if state.ParticipantInfo, err = marshal(snapshot.Participant); err != nil {
		return err
	}
	if state.FilteredData, err = marshal(snapshot.Annotations); err != nil {
		return err
	}
	if state.ReasoningData, err = marshal(snapshot.Reasoning); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "participant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"participant_info", "filtered_data", "reasoning_data", "survey_completed", "updated_at",
		}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("saving handoff state: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for the participant.
func (s *ServiceImpl) Load(ctx context.Context, participantID int) (*Snapshot, error) {
	var state models.HandoffState
	err := s.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading handoff state: %w", err)
	}

	snapshot := Snapshot{SurveyCompleted: state.SurveyCompleted}
	if err := unmarshal(state.ParticipantInfo, &snapshot.Participant); err != nil {
		return nil, err
	}
	if err := unmarshal(state.FilteredData, &snapshot.Annotations); err != nil {
		return nil, err
	}
	if err := unmarshal(state.ReasoningData, &snapshot.Reasoning); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SetCompleted flips the survey-completed flag for the participant.
func (s *ServiceImpl) SetCompleted(ctx context.Context, participantID int, completed bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.HandoffState{}).
		Where("participant_id = ?", participantID).
		Update("survey_completed", completed)
	if result.Error != nil {
		return fmt.Errorf("updating survey flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear hard-deletes the participant's row. The unique index on participant_id
// would otherwise collide with a later re-login under soft delete.
func (s *ServiceImpl) Clear(ctx context.Context, participantID int) error {
	err := s.db.WithContext(ctx).
		Unscoped().
		Where("participant_id = ?", participantID).
		Delete(&models.HandoffState{}).Error
	if err != nil {
		return fmt.Errorf("clearing handoff state: %w", err)
	}
	return nil
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding handoff state: %w", err)
	}
	return string(b), nil
}

func unmarshal(s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decoding handoff state: %w", err)
	}
	return nil
}

package models

import "gorm.io/gorm"

// HandoffState is the per-participant state carried between the survey and
// reasoning pages. It mirrors the browser's transient key-value store:
// participant info, this participant's prior annotations, reasoning drafts and
// the survey-completed flag. Cleared on logout.
type HandoffState struct {
	gorm.Model
	ParticipantID   int    `json:"participant_id" gorm:"uniqueIndex;not null"`
	ParticipantInfo string `json:"participant_info" gorm:"type:text"`
	FilteredData    string `json:"filtered_data" gorm:"type:text"`
	ReasoningData   string `json:"reasoning_data" gorm:"type:text"`
	SurveyCompleted bool   `json:"survey_completed" gorm:"default:false"`
}

// TableName returns the table name for the HandoffState model
func (HandoffState) TableName() string {
	return "handoff_states"
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelab/onomatopoeia-api/internal/models"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database", dbPath: filepath.Join(t.TempDir(), "survey.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NoError(t, conn.HealthCheck())
		})
	}
}

func TestMigrateAndHandoffRoundTrip(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Migrate())

	state := models.HandoffState{
		ParticipantID:   4,
		FilteredData:    `[{"video":"A.mp4","onomatopoeia":"null"}]`,
		SurveyCompleted: true,
	}
	require.NoError(t, conn.Create(&state).Error)

	var loaded models.HandoffState
	require.NoError(t, conn.Where("participant_id = ?", 4).First(&loaded).Error)
	assert.True(t, loaded.SurveyCompleted)
	assert.Equal(t, state.FilteredData, loaded.FilteredData)
}

func TestHealthCheckAfterClose(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	assert.Error(t, conn.HealthCheck())
}

func TestHealthCheckNil(t *testing.T) {
	var conn *DB
	assert.Error(t, conn.HealthCheck())
}

package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/internal/database"
	"github.com/movelab/onomatopoeia-api/internal/models"
	"github.com/movelab/onomatopoeia-api/internal/services/catalog"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/services/participants"
	reasoningservice "github.com/movelab/onomatopoeia-api/internal/services/reasoning"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

func testEngine(t *testing.T) (*gin.Engine, handoff.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := sheets.NewMemoryGateway()
	gw.Seed("Onomatopoeia", [][]string{{
		"participantId", "participantName", "video", "onomatopoeia",
		"startTime", "endTime", "answeredTimestamp", "hasAudio",
		"audioFileName", "reasoning", "rowId",
	}})
	gw.Seed("SelectedVideos", [][]string{{"videoName"}, {"A"}})
	gw.Seed("Participants", [][]string{
		{"participantId", "email", "name", "age", "gender", "movementPractice", "nativeLanguage", "registrationTimestamp"},
		{"4", "mina@example.com", "Mina", "29", "f", "dance", "ja", "2025:01:01:00:00:00"},
	})

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	ho := handoff.NewService(db)
	cat := catalog.NewService(gw, nil, nil, catalog.Config{})
	store := participants.NewService(gw, participants.Config{CaseInsensitiveEmail: true})
	machine := session.NewMachine(gw, gw, cat, ho, nil, session.Config{})

	deps := &types.Dependencies{
		Gateway:       gw,
		Participants:  store,
		Handoff:       ho,
		Reasoning:     reasoningservice.NewService(gw, ho, nil, reasoningservice.Config{}),
		ReasoningPage: session.NewController(&session.ReasoningPage{Handoff: ho}, store, machine, nil),
	}

	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1/reasoning"), deps)
	return engine, ho
}

func postReasoning(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestEnter(t *testing.T) {
	engine, ho := testEngine(t)
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		w := postReasoning(t, engine, "/api/v1/reasoning/enter", EnterRequest{Email: "nobody@example.com"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("survey not started", func(t *testing.T) {
		w := postReasoning(t, engine, "/api/v1/reasoning/enter", EnterRequest{Email: "mina@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("survey in progress", func(t *testing.T) {
		require.NoError(t, ho.Save(ctx, handoff.Snapshot{
			Participant: &models.Participant{ID: 4, Email: "mina@example.com", Name: "Mina"},
		}))

		w := postReasoning(t, engine, "/api/v1/reasoning/enter", EnterRequest{Email: "mina@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("survey completed", func(t *testing.T) {
		require.NoError(t, ho.SetCompleted(ctx, 4, true))

		w := postReasoning(t, engine, "/api/v1/reasoning/enter", EnterRequest{Email: "mina@example.com", Language: "ja"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp EnterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Participant)
		assert.Equal(t, 4, resp.Participant.ID)
		assert.Equal(t, "mina@example.com", resp.DisplayName, "this pass shows the email, not the name")
	})
}

func TestLogout(t *testing.T) {
	engine, ho := testEngine(t)
	ctx := context.Background()

	require.NoError(t, ho.Save(ctx, handoff.Snapshot{
		Participant:     &models.Participant{ID: 4, Email: "mina@example.com"},
		SurveyCompleted: true,
	}))

	w := postReasoning(t, engine, "/api/v1/reasoning/logout", LogoutRequest{ParticipantID: 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err := ho.Load(ctx, 4)
	assert.ErrorIs(t, err, handoff.ErrNotFound)

	// With the state cleared, re-entry is gated again.
	w = postReasoning(t, engine, "/api/v1/reasoning/enter", EnterRequest{Email: "mina@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

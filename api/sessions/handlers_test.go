package sessions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/internal/database"
	"github.com/movelab/onomatopoeia-api/internal/services/catalog"
	"github.com/movelab/onomatopoeia-api/internal/services/handoff"
	"github.com/movelab/onomatopoeia-api/internal/services/participants"
	"github.com/movelab/onomatopoeia-api/internal/services/session"
	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

// testRouter wires the session routes over an in-memory gateway so the full
// HTTP flow can be exercised without any remote calls.
func testRouter(t *testing.T) (*gin.Engine, *sheets.MemoryGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := sheets.NewMemoryGateway()
	gw.Seed("Onomatopoeia", [][]string{{
		"participantId", "participantName", "video", "onomatopoeia",
		"startTime", "endTime", "answeredTimestamp", "hasAudio",
		"audioFileName", "reasoning", "rowId",
	}})
	gw.Seed("SelectedVideos", [][]string{{"videoName"}, {"A"}, {"B"}})
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
		Gateway:      gw,
		Participants: store,
		Catalog:      cat,
		Sessions:     machine,
		Survey:       session.NewController(&session.SurveyPage{Machine: machine}, store, machine, nil),
		Handoff:      ho,
	}

	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1/sessions"), deps, func(c *gin.Context) { c.Next() })
	return engine, gw
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestSessionFlow(t *testing.T) {
	engine, gw := testRouter(t)

	// Start the pass.
	w := postJSON(t, engine, "/api/v1/sessions", CreateRequest{Email: "mina@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.SessionCreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Session)
	require.NotNil(t, created.Participant)
	assert.Equal(t, 4, created.Participant.ID)
	assert.Equal(t, session.StateAwaitingYesNo, created.Session.State)
	assert.Equal(t, "A", created.Session.Video)

	id := created.Session.SessionID

	// No onomatopoeia for A writes the sentinel row and advances to B.
	w = postJSON(t, engine, "/api/v1/sessions/"+id+"/answer", AnswerRequest{Answer: "no"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "B", resp.Session.Video)

	// Annotate B: yes, capture both times, save.
	w = postJSON(t, engine, "/api/v1/sessions/"+id+"/answer", AnswerRequest{Answer: "yes"})
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, engine, "/api/v1/sessions/"+id+"/capture", CaptureRequest{Point: "start", Position: 1.234})
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, engine, "/api/v1/sessions/"+id+"/capture", CaptureRequest{Point: "end", Position: 2.5})
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, engine, "/api/v1/sessions/"+id+"/save", session.SaveInput{Onomatopoeia: "boing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Advancing past the last covered video completes the pass.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/advance", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Session.Completed)

	// Header plus sentinel plus the real annotation.
	assert.Equal(t, 3, gw.RowCount("Onomatopoeia"))

	// Logout drops the session.
	w = postJSON(t, engine, "/api/v1/sessions/"+id+"/logout", LogoutRequest{ParticipantID: 4})
	require.Equal(t, http.StatusOK, w.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, getReq)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionUnknownParticipant(t *testing.T) {
	engine, _ := testRouter(t)

	w := postJSON(t, engine, "/api/v1/sessions", CreateRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionBadAnswer(t *testing.T) {
	engine, _ := testRouter(t)

	w := postJSON(t, engine, "/api/v1/sessions", CreateRequest{Email: "mina@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.SessionCreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = postJSON(t, engine, "/api/v1/sessions/"+created.Session.SessionID+"/answer", gin.H{"answer": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionUnknownID(t *testing.T) {
	engine, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

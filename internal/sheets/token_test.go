package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var body struct {
			SpreadsheetID string `json:"spreadsheetId"`
			SheetName     string `json:"sheetName"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sheet-123", body.SpreadsheetID)

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-abc"})
	}))
}

func TestTokenCaching(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, &calls)
	defer server.Close()

	source := NewRemoteTokenSource(TokenSourceConfig{
		Endpoint:      server.URL,
		SpreadsheetID: "sheet-123",
		SheetName:     "Onomatopoeia",
		CacheTTL:      50 * time.Minute,
	})

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	source.now = func() time.Time { return now }

	ctx := context.Background()

	tok, err := source.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)
	assert.Equal(t, int32(1), calls.Load())

	// 49 minutes in: still cached.
	now = now.Add(49 * time.Minute)
	_, err = source.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	// 51 minutes in: cache expired, fresh fetch.
	now = now.Add(2 * time.Minute)
	_, err = source.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenRetriesOnceOnNetworkFailure(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, &calls)
	// Close immediately so every request fails at the transport level.
	server.Close()

	source := NewRemoteTokenSource(TokenSourceConfig{
		Endpoint:      server.URL,
		SpreadsheetID: "sheet-123",
		SheetName:     "Onomatopoeia",
	})
	source.retryDelay = time.Millisecond

	_, err := source.Token(context.Background())
	assert.Error(t, err)
}

func TestTokenNonOKStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewRemoteTokenSource(TokenSourceConfig{Endpoint: server.URL})
	source.retryDelay = time.Millisecond

	_, err := source.Token(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "HTTP-level failures are not transient")
}

func TestTokenMissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	source := NewRemoteTokenSource(TokenSourceConfig{Endpoint: server.URL})

	_, err := source.Token(context.Background())
	assert.ErrorContains(t, err, "access_token")
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("fixed").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", tok)
}

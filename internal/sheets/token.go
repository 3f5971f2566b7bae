package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// TokenSource supplies bearer tokens for the Sheets API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// RemoteTokenSource exchanges the service-account credential through the
// token endpoint and caches the result. The provider expires tokens after an
// hour, so the cache TTL must stay below that; 50 minutes is the default.
type RemoteTokenSource struct {
	endpoint      string
	spreadsheetID string
	sheetName     string
	httpClient    *http.Client
	ttl           time.Duration
	retryDelay    time.Duration
	now           func() time.Time

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// TokenSourceConfig holds settings for a RemoteTokenSource.
type TokenSourceConfig struct {
	Endpoint      string
	SpreadsheetID string
	SheetName     string
	Timeout       time.Duration
	CacheTTL      time.Duration
}

// NewRemoteTokenSource creates a caching token source for the given endpoint.
func NewRemoteTokenSource(cfg TokenSourceConfig) *RemoteTokenSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 50 * time.Minute
	}
	return &RemoteTokenSource{
		endpoint:      cfg.Endpoint,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		ttl:           cfg.CacheTTL,
		retryDelay:    3 * time.Second,
		now:           time.Now,
	}
}

// Token returns a cached token while it is fresh, otherwise fetches a new one.
// A transient network failure is retried exactly once before propagating.
func (s *RemoteTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && s.now().Before(s.expiry) {
		return s.cached, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		if isTransient(err) {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			token, err = s.fetch(ctx)
		}
		if err != nil {
			return "", err
		}
	}

	s.cached = token
	s.expiry = s.now().Add(s.ttl)
	return token, nil
}

func (s *RemoteTokenSource) fetch(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"spreadsheetId": s.spreadsheetID,
		"sheetName":     s.sheetName,
	})
	if err != nil {
		return "", fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	return payload.AccessToken, nil
}

// isTransient reports whether the error came from the transport rather than
// the endpoint itself. http.Client.Do wraps those in *url.Error.
func isTransient(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// StaticTokenSource returns the same token forever. Used in tests and when a
// token is minted locally.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

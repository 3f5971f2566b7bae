package googleauth

import (
	"context"
	"sync"
	"time"
)

// CachingSource adapts the minter to the sheets client's token source,
// caching each minted token below the provider's one-hour expiry.
type CachingSource struct {
	minter *Minter
	scopes []string
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// NewCachingSource creates a caching source for the given scopes. ttl <= 0 or
// >= an hour falls back to 50 minutes.
func NewCachingSource(minter *Minter, ttl time.Duration, scopes ...string) *CachingSource {
	if ttl <= 0 || ttl >= time.Hour {
		ttl = 50 * time.Minute
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeSpreadsheets}
	}
	return &CachingSource{minter: minter, scopes: scopes, ttl: ttl, now: time.Now}
}

// Token returns the cached token while fresh, otherwise mints a new one.
func (s *CachingSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && s.now().Before(s.expiry) {
		return s.cached, nil
	}

	token, err := s.minter.Mint(ctx, s.scopes...)
	if err != nil {
		return "", err
	}

	s.cached = token
	s.expiry = s.now().Add(s.ttl)
	return token, nil
}

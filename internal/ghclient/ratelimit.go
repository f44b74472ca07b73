package ghclient

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/log"
)

// ErrRateLimited is reported when the last response exhausted the quota.
var ErrRateLimited = errors.New("rate limited")

// RateLimitState tracks the most recent rate limit headers seen.
// It is informational only: requests are never held back or retried.
type RateLimitState struct {
	mu        sync.RWMutex
	remaining int
	limit     int
	resetAt   time.Time
	seen      bool
}

var globalRateLimitState = &RateLimitState{}

// Update records rate limit values from a response.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.seen = true
}

// Status returns the recorded values. ok is false until a response was seen.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.seen
}

// Limited reports whether the quota is exhausted and not yet reset.
func (s *RateLimitState) Limited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seen && s.remaining == 0 && time.Now().Before(s.resetAt)
}

// GetRateLimitStatus returns the global rate limit status.
func GetRateLimitStatus() (remaining, limit int, resetAt time.Time, ok bool) {
	return globalRateLimitState.Status()
}

// IsRateLimited reports whether the last response exhausted the quota.
func IsRateLimited() bool {
	return globalRateLimitState.Limited()
}

// rateLimitTransport records GitHub rate limit headers on every response.
type rateLimitTransport struct {
	base  http.RoundTripper
	state *RateLimitState // nil means the global state
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	state := t.state
	if state == nil {
		state = globalRateLimitState
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		state.Update(remaining, limit, resetAt)
		if remaining <= constants.RateLimitLowWatermark {
			log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
		}
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Missing values are reported as -1.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}

	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(unix, 0)
		}
	}

	return remaining, limit, resetAt
}

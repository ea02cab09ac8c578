// Package concat implements ConcatSession (C8): the infinite-stream trick
// described in spec.md §4.8 — /playlist returns an ffconcat v1.0 manifest
// with two entries pointing back to /stream, driven by -stream_loop -1, so
// the concat muxer reopens /stream after every per-item encoder EOFs.
package concat

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// sessionCounter is the process-wide incrementing session identifier
// source, per spec: "an incrementing integer per process".
var sessionCounter int64

// NextSessionID mints the next session id.
func NextSessionID() int64 { return atomic.AddInt64(&sessionCounter, 1) }

// Manifest renders the two-entry ffconcat v1.0 manifest pointing both
// entries at streamURL, per spec.md §4.8.
func Manifest(streamURL string) string {
	return fmt.Sprintf("ffconcat version 1.0\nfile '%s'\nfile '%s'\n", streamURL, streamURL)
}

// attemptWindow is the sliding window over which failed-to-produce-bytes
// attempts are counted before the session is throttled.
const attemptWindow = 5 * time.Minute

// maxAttemptsInWindow is K in spec's "failed to produce bytes more than K
// times in a sliding window".
const maxAttemptsInWindow = 5

// Throttler tracks per-session attempt failures using golang.org/x/time/rate
// as a token-bucket sliding-window counter: each session gets a limiter
// seeded with maxAttemptsInWindow tokens refilling over attemptWindow, and a
// failed attempt consumes one token. Once the bucket is empty the session
// is throttled until tokens refill. This is the ecosystem tool for "bound
// how often something may legitimately recur in a window" that call sites
// otherwise hand-roll individually.
type Throttler struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

func NewThrottler() *Throttler {
	return &Throttler{limiters: make(map[int64]*rate.Limiter)}
}

func (t *Throttler) limiterFor(sessionID int64) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.limiters[sessionID]
	if !ok {
		refillPerSec := rate.Limit(float64(maxAttemptsInWindow) / attemptWindow.Seconds())
		l = rate.NewLimiter(refillPerSec, maxAttemptsInWindow)
		// Start full: every new session may fail maxAttemptsInWindow times
		// before being throttled, exactly as a freshly-opened window would.
		l.AllowN(time.Now(), 0)
		t.limiters[sessionID] = l
	}
	return l
}

// RecordFailure consumes one attempt token for sessionID. It returns true
// if the session has now exceeded maxAttemptsInWindow failures and must be
// throttled (spec: "next resolve is forced to a 60s offline item").
func (t *Throttler) RecordFailure(sessionID int64) (throttled bool) {
	l := t.limiterFor(sessionID)
	return !l.AllowN(time.Now(), 1)
}

// Forget drops a session's throttling state once its connection closes.
func (t *Throttler) Forget(sessionID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.limiters, sessionID)
}

// Package clock gives the Channel Streaming Core an injectable notion of
// "now" so LineupResolver and its callers can be tested against fixed wall
// times instead of the real system clock.
package clock

import "time"

// Clock returns the current time. Production code uses Real; tests inject
// a Fixed clock to exercise boundary conditions deterministically.
type Clock interface {
	NowMs() int64
}

// Real reads the system clock.
type Real struct{}

func (Real) NowMs() int64 { return time.Now().UnixMilli() }

// Fixed always reports the same instant.
type Fixed int64

func (f Fixed) NowMs() int64 { return int64(f) }

// ElapsedInLoop computes (now - startMs) mod durationMs, per spec: the
// channel's wall-clock position within its looping lineup. durationMs must
// be > 0; callers are responsible for rejecting empty lineups beforehand.
func ElapsedInLoop(nowMs, startMs, durationMs int64) int64 {
	delta := nowMs - startMs
	if durationMs <= 0 {
		return 0
	}
	m := delta % durationMs
	if m < 0 {
		m += durationMs
	}
	return m
}

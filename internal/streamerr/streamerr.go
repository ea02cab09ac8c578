// Package streamerr implements the error taxonomy of the Channel Streaming
// Core. Each kind either maps to an HTTP status at the StreamController
// boundary or is contained and never reaches the client as an HTTP error
// (RedirectCycle and FillerExhausted surface as in-stream offline items
// instead). A throttled session is the exception; see TooManyAttempts.
package streamerr

import "fmt"

// BadRequest is returned for a missing or invalid query parameter.
type BadRequest struct{ Reason string }

func (e *BadRequest) Error() string { return "bad request: " + e.Reason }

// NotFound is returned when a channel id/number is not in Store.
type NotFound struct{ Channel string }

func (e *NotFound) Error() string { return "channel not found: " + e.Channel }

// EncoderMissing is returned when the configured encoder executable is not
// present on disk.
type EncoderMissing struct{ Path string }

func (e *EncoderMissing) Error() string { return "encoder executable missing: " + e.Path }

// LineupEmpty is returned by LineupResolver when a channel's lineup has
// zero items.
type LineupEmpty struct{ ChannelID string }

func (e *LineupEmpty) Error() string { return "lineup empty for channel " + e.ChannelID }

// LineupDurationMismatch is returned when the summed item durations diverge
// from channel.DurationMs by more than SLACK.
type LineupDurationMismatch struct {
	ChannelID string
	Summed    int64
	Declared  int64
}

func (e *LineupDurationMismatch) Error() string {
	return fmt.Sprintf("lineup duration mismatch for channel %s: summed=%dms declared=%dms", e.ChannelID, e.Summed, e.Declared)
}

// RedirectCycle is raised by RedirectWalker when a channel redirects back
// into its own visited set. StreamController must translate this into a 60s
// offline item, never an HTTP error.
type RedirectCycle struct{ Path []string }

func (e *RedirectCycle) Error() string {
	s := "redirect cycle:"
	for _, id := range e.Path {
		s += " " + id
	}
	return s
}

// FillerExhausted describes FillerPicker finding no eligible filler clip
// (filler.Pick reports this as a Result with a nil Clip). Never surfaced;
// StreamController shortens the offline gap to MinimumWaitMs, when set, so
// the next resolve can find filler.
type FillerExhausted struct{ MinimumWaitMs int64 }

func (e *FillerExhausted) Error() string {
	return fmt.Sprintf("no eligible filler, minimum wait %dms", e.MinimumWaitMs)
}

// EncoderCrash is raised when the encoder process exits with a code outside
// {0, 255-after-data}.
type EncoderCrash struct {
	ExitCode int
	Stderr   string
}

func (e *EncoderCrash) Error() string {
	return fmt.Sprintf("encoder crashed: exit=%d stderr=%.200s", e.ExitCode, e.Stderr)
}

// TooManyAttempts describes a session that has failed more than K times in
// its sliding window (concat.Throttler.RecordFailure reports this as true).
// No code path returns this type: internal/httpserver answers such a session
// with HTTP 500 "too many attempts" and substitutes no offline item.
type TooManyAttempts struct{ SessionID int64 }

func (e *TooManyAttempts) Error() string {
	return fmt.Sprintf("session %d: too many attempts, throttling", e.SessionID)
}

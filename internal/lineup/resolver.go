// Package lineup implements LineupResolver (C2): given a channel and a
// wall-clock instant, it returns the lineup item that would be "on the
// air" at that instant, generalized from a static HDHomeRun lineup
// listing (a static HDHomeRun lineup endpoint; this resolves a
// time-varying one) to the looping-schedule model in spec.md §3.
package lineup

import (
	"github.com/airwaves/channelcast/internal/clock"
	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/streamerr"
)

// SlackMs is the 9,900ms tolerance used for boundary smoothing and cooldown
// fuzzing throughout the core.
const SlackMs int64 = 9900

// StartSnapThresholdMs is the point under which timeIntoItem is clamped to
// zero so encoders and container probes don't lose the first few seconds
// on a mid-file seek.
const StartSnapThresholdMs int64 = 30000

// Resolved is the output of Resolve: the lineup item airing at now, how far
// into it the client is joining, and its index in the lineup (-1 for the
// synthetic pre-start offline item).
type Resolved struct {
	Item              model.LineupItem
	TimeIntoItemMs    int64
	Index             int
	BeginningOffsetMs int64
	// StreamDurationMs is populated by RedirectWalker once a non-redirect
	// item has resolved; it is the bounded remaining play time across all
	// redirect hops, not a LineupResolver output on its own.
	StreamDurationMs int64
}

// Resolve implements spec.md §4.2 steps 1-6.
func Resolve(channel model.Channel, items []model.LineupItem, nowMs int64) (Resolved, error) {
	if nowMs < channel.StartTimeMs {
		return Resolved{
			Item:           model.LineupItem{Type: model.LineupOffline, DurationMs: channel.StartTimeMs - nowMs},
			TimeIntoItemMs: 0,
			Index:          -1,
		}, nil
	}
	if len(items) == 0 {
		return Resolved{}, &streamerr.LineupEmpty{ChannelID: channel.ID}
	}

	var summed int64
	for _, it := range items {
		summed += it.DurationMs
	}
	mismatch := summed - channel.DurationMs
	if mismatch < 0 {
		mismatch = -mismatch
	}
	if mismatch > SlackMs {
		return Resolved{}, &streamerr.LineupDurationMismatch{ChannelID: channel.ID, Summed: summed, Declared: channel.DurationMs}
	}

	elapsed := clock.ElapsedInLoop(nowMs, channel.StartTimeMs, channel.DurationMs)

	var acc int64
	idx := 0
	timeIntoItem := elapsed
	for i, it := range items {
		if acc+it.DurationMs > elapsed {
			idx = i
			timeIntoItem = elapsed - acc
			break
		}
		acc += it.DurationMs
		idx = i
	}
	// elapsed landed exactly on/after the last item's end (rounding): clamp
	// to the final item rather than falling off the lineup.
	if acc+items[idx].DurationMs <= elapsed {
		timeIntoItem = items[idx].DurationMs - 1
		if timeIntoItem < 0 {
			timeIntoItem = 0
		}
	}

	item := items[idx]

	// Boundary smoothing: avoid handing the client a program with <10s left.
	if item.DurationMs > 2*SlackMs && timeIntoItem > item.DurationMs-SlackMs {
		idx = (idx + 1) % len(items)
		item = items[idx]
		timeIntoItem = 0
	}

	var beginningOffset int64
	if timeIntoItem < StartSnapThresholdMs {
		beginningOffset = timeIntoItem
		timeIntoItem = 0
	}

	return Resolved{
		Item:              item,
		TimeIntoItemMs:     timeIntoItem,
		Index:              idx,
		BeginningOffsetMs: beginningOffset,
	}, nil
}

// Package redirect implements RedirectWalker (C5): follows redirect-typed
// lineup items across channels, detects cycles, and bounds the final
// streamDuration by every hop's remaining time, per spec.md §4.5.
package redirect

import (
	"github.com/airwaves/channelcast/internal/lineup"
	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/streamerr"
)

// ChannelLoader loads a channel and its lineup items by channel id; this is
// the subset of Store the walker needs.
type ChannelLoader interface {
	LoadChannelAndLineup(channelID string) (model.Channel, []model.LineupItem, error)
}

// Walk resolves startChannel at nowMs, following any redirect chain until a
// non-redirect item is reached. It returns the final resolved item together
// with the channel it ultimately airs on.
func Walk(loader ChannelLoader, startChannel model.Channel, startItems []model.LineupItem, nowMs int64) (model.Channel, lineup.Resolved, error) {
	visited := map[string]bool{startChannel.ID: true}
	var bounds []int64 // remaining time at each hop, outermost first

	curChannel := startChannel
	curItems := startItems

	for {
		resolved, err := lineup.Resolve(curChannel, curItems, nowMs)
		if err != nil {
			return curChannel, lineup.Resolved{}, err
		}
		if resolved.Item.Type != model.LineupRedirect {
			// Unwind bounds innermost to outermost, clamping streamDuration.
			streamDuration := resolved.Item.DurationMs - resolved.TimeIntoItemMs
			for i := len(bounds) - 1; i >= 0; i-- {
				bound := bounds[i] + resolved.BeginningOffsetMs
				if bound < streamDuration {
					streamDuration = bound
				}
			}
			resolved.StreamDurationMs = streamDuration
			return curChannel, resolved, nil
		}

		nextID := resolved.Item.RedirectChannelID
		if visited[nextID] {
			path := make([]string, 0, len(visited)+1)
			for id := range visited {
				path = append(path, id)
			}
			path = append(path, nextID)
			return curChannel, lineup.Resolved{}, &streamerr.RedirectCycle{Path: path}
		}
		visited[nextID] = true
		bounds = append(bounds, resolved.Item.DurationMs-resolved.TimeIntoItemMs)

		nextChannel, nextItems, err := loader.LoadChannelAndLineup(nextID)
		if err != nil {
			return curChannel, lineup.Resolved{}, err
		}
		curChannel = nextChannel
		curItems = nextItems
	}
}

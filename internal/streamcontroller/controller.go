// Package streamcontroller implements StreamController (C9): the top-level
// request handler that orchestrates LineupResolver, RedirectWalker,
// FillerPicker, and EncoderPlanBuilder for one client connection, per
// spec.md §4.9; spawning the EncoderProcess is left to the caller. Grounded on a prior Gateway.ServeHTTP
// (request-ID tagging, tuner-slot bookkeeping, upstream fetch/failover
// loop) generalized from "proxy a provider URL" to "resolve a channel
// lineup item and stream its encoder".
package streamcontroller

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/airwaves/channelcast/internal/clock"
	"github.com/airwaves/channelcast/internal/concat"
	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/encoderplan/synthetic"
	"github.com/airwaves/channelcast/internal/filler"
	"github.com/airwaves/channelcast/internal/lineup"
	"github.com/airwaves/channelcast/internal/mediaresolver"
	"github.com/airwaves/channelcast/internal/metrics"
	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/playback"
	"github.com/airwaves/channelcast/internal/redirect"
	"github.com/airwaves/channelcast/internal/store"
	"github.com/airwaves/channelcast/internal/streamerr"
)

// SlackMs mirrors lineup.SlackMs.
const SlackMs int64 = lineup.SlackMs

// maxRedirectRecursion hard-caps the StreamController's own "skip short
// offline gap" recursion, per spec.md §4.9 step 6, at a fixed ceiling.
// RedirectWalker has no numeric bound of its own; it stops at the first
// channel it has already visited.
const maxRedirectRecursion = 64

// loadingItemDurationMs is the synthetic 40ms "loading" item injected on
// first==0 to stabilise the first concat splice (spec.md §4.9 step 4).
const loadingItemDurationMs = 40

// Controller wires Store, PlaybackCache, the concat attempt throttler, and
// an optional MediaResolver (content items need one to get a source URL and
// probe stats; redirect/offline items don't).
type Controller struct {
	Store      store.Store
	Resolver   mediaresolver.Resolver
	Cache      *playback.Cache
	Throttler  *concat.Throttler
	Clock      clock.Clock
	EncoderPath string
	Rand       *rand.Rand
}

// PlanResult is everything StreamController resolves before spawning an
// encoder: the finished plan, and whether the caller should actually run
// one ("kill" mode synthetic items never spawn).
type PlanResult struct {
	Item  model.StreamLineupItem
	Plan  encoderplan.Plan
	Spawn bool
}

type channelLoaderAdapter struct {
	ctx context.Context
	s   store.Store
}

func (a channelLoaderAdapter) LoadChannelAndLineup(channelID string) (model.Channel, []model.LineupItem, error) {
	return a.s.LoadChannelAndLineup(a.ctx, channelID)
}

// Resolve implements spec.md §4.9 steps 2-9 for a /stream request, after the
// caller has confirmed the channel exists (step 2) and the encoder
// executable is present (step 3). It does not spawn the encoder itself
// (callers own that).
func (c *Controller) Resolve(ctx context.Context, channelNumber int, sessionID int64, first bool, isFirstJoin bool, now int64, depth int) (PlanResult, error) {
	if depth > maxRedirectRecursion {
		return PlanResult{}, &streamerr.RedirectCycle{Path: []string{fmt.Sprintf("channel#%d", channelNumber)}}
	}

	channel, err := c.Store.GetChannelByNumber(ctx, channelNumber)
	if err != nil {
		return PlanResult{}, &streamerr.NotFound{Channel: fmt.Sprintf("%d", channelNumber)}
	}
	items, err := c.Store.LoadLineup(ctx, channel.ID)
	if err != nil {
		return PlanResult{}, err
	}

	// Step 4: stabilise the first concat splice with a 40ms loading item.
	if !first {
		return c.buildOfflinePlan(channel, model.LineupItem{Type: model.LineupOffline, DurationMs: loadingItemDurationMs}, loadingItemDurationMs, "")
	}

	// Step 7: permanently-offline channel (single offline item).
	if len(items) == 1 && items[0].Type == model.LineupOffline {
		const permanentOfflineMs = 365 * 24 * 60 * 60 * 1000
		return c.buildOfflinePlan(channel, model.LineupItem{Type: model.LineupOffline, DurationMs: permanentOfflineMs}, permanentOfflineMs, "")
	}

	loader := channelLoaderAdapter{ctx: ctx, s: c.Store}
	finalChannel, resolved, err := redirect.Walk(loader, channel, items, now)
	if err != nil {
		if cyc, ok := err.(*streamerr.RedirectCycle); ok {
			metrics.RedirectHops.Observe(float64(len(cyc.Path)))
			const cycleOfflineMs = 60_000
			return c.buildOfflinePlan(channel, model.LineupItem{Type: model.LineupOffline, DurationMs: cycleOfflineMs}, cycleOfflineMs, cyc.Error())
		}
		return PlanResult{}, err
	}

	// Step 6: skip a near-finished offline gap by re-entering just past it.
	remaining := resolved.Item.DurationMs - resolved.TimeIntoItemMs
	if resolved.Item.Type == model.LineupOffline && remaining <= SlackMs+1 {
		c.Cache.ClearRedirectRecords(channelNumber)
		return c.Resolve(ctx, channelNumber, sessionID, true, isFirstJoin, now+remaining+1, depth+1)
	}

	// Step 8/9: offline gap -> FillerPicker, else a resolved content item.
	if resolved.Item.Type == model.LineupOffline {
		return c.resolveOfflineWithFiller(ctx, finalChannel, channelNumber, resolved, remaining, isFirstJoin, now)
	}

	return c.resolveContent(ctx, finalChannel, channelNumber, resolved, now)
}

func (c *Controller) resolveOfflineWithFiller(ctx context.Context, channel model.Channel, channelNumber int, resolved lineup.Resolved, remaining int64, isFirstJoin bool, now int64) (PlanResult, error) {
	res := filler.Pick(channel.FillerCollections, c.Cache, channelNumber, channel.FillerRepeatCooldownMs, remaining, isFirstJoin, now, c.Rand)

	if res.Clip == nil {
		if channel.OfflineMode == model.OfflineModeClip && channel.OfflineFallback != nil {
			metrics.FillerPicks.WithLabelValues("fallback").Inc()
			c.Cache.RecordItem(channelNumber, channel.OfflineFallback.ID, now)
			return c.buildContentPlanForFillerClip(channel, *channel.OfflineFallback, remaining, 0)
		}
		metrics.FillerPicks.WithLabelValues("none").Inc()
		const finalFallbackMs = 10 * 60 * 1000
		cap := remaining
		if res.MinimumWaitMs > 0 && cap > res.MinimumWaitMs {
			// Shorten the gap so the next resolve can find eligible filler.
			cap = res.MinimumWaitMs
		}
		if cap > finalFallbackMs {
			cap = finalFallbackMs
		}
		return c.buildOfflinePlan(channel, model.LineupItem{Type: model.LineupOffline, DurationMs: cap}, cap, "")
	}

	metrics.FillerPicks.WithLabelValues("picked").Inc()
	c.Cache.RecordItem(channelNumber, res.Clip.ID, now)
	if res.Collection != nil {
		c.Cache.RecordFiller(channelNumber, res.Collection.ShowID, now)
	}
	return c.buildContentPlanForFillerClip(channel, *res.Clip, remaining, res.StartOffsetMs)
}

func (c *Controller) resolveContent(ctx context.Context, channel model.Channel, channelNumber int, resolved lineup.Resolved, now int64) (PlanResult, error) {
	streamItem := model.StreamLineupItem{
		Item:              resolved.Item,
		StartMs:           resolved.TimeIntoItemMs,
		BeginningOffsetMs: resolved.BeginningOffsetMs,
		StreamDurationMs:  resolved.StreamDurationMs,
	}
	if streamItem.StreamDurationMs <= 0 {
		streamItem.StreamDurationMs = resolved.Item.DurationMs - resolved.TimeIntoItemMs
	}

	var probe encoderplan.ProbeStats
	if c.Resolver != nil {
		program := model.Program{ExternalKey: resolved.Item.ProgramKey, FilePath: resolved.Item.ProgramKey}
		url, p, err := c.Resolver.Resolve(ctx, program)
		if err == nil {
			streamItem.SourceURL = url
			probe = p
		}
	}

	c.Cache.RecordItem(channelNumber, resolved.Item.ProgramKey, now)

	settings, err := c.Store.FFmpegSettings(ctx, channel.ID)
	if err != nil {
		return PlanResult{}, err
	}
	if settings.EncoderPath == "" {
		settings.EncoderPath = c.EncoderPath
	}

	plan := encoderplan.Build(streamItem, settings, probe, channel.Watermark, encoderplan.SyntheticSpec{})
	return PlanResult{Item: streamItem, Plan: plan, Spawn: true}, nil
}

func (c *Controller) buildContentPlanForFillerClip(channel model.Channel, clip model.FillerClip, remaining int64, startOffsetMs int64) (PlanResult, error) {
	dur := clip.DurationMs
	if dur > remaining {
		dur = remaining
	}
	streamItem := model.StreamLineupItem{
		Item:             model.LineupItem{Type: model.LineupContent, ProgramKey: clip.ID, DurationMs: clip.DurationMs},
		StartMs:          startOffsetMs,
		StreamDurationMs: dur,
		IsFiller:         true,
		FillerClipID:     clip.ID,
		SourceURL:        clip.FilePath,
		Title:            clip.Title,
	}
	settings, _ := defaultFFmpegSettings(channel)
	plan := encoderplan.Build(streamItem, settings, encoderplan.ProbeStats{}, channel.Watermark, encoderplan.SyntheticSpec{})
	return PlanResult{Item: streamItem, Plan: plan, Spawn: true}, nil
}

func (c *Controller) buildOfflinePlan(channel model.Channel, item model.LineupItem, durationMs int64, errText string) (PlanResult, error) {
	streamItem := model.StreamLineupItem{
		Item:             item,
		StreamDurationMs: durationMs,
		Error:            errText,
	}
	settings, _ := defaultFFmpegSettings(channel)
	mode := synthetic.Pic
	audioMode := synthetic.AudioSilence
	if channel.OfflineSoundtrack != "" {
		audioMode = synthetic.AudioOfflineSoundtrack
	}
	if errText != "" {
		mode = synthetic.Text
	}
	synth := encoderplan.SyntheticSpec{
		Active:        true,
		Mode:          mode,
		Title:         errText,
		SoundtrackURL: channel.OfflineSoundtrack,
		AudioMode:     audioMode,
		DurationMs:    durationMs,
	}
	plan := encoderplan.Build(streamItem, settings, encoderplan.ProbeStats{}, nil, synth)
	return PlanResult{Item: streamItem, Plan: plan, Spawn: mode != synthetic.Kill}, nil
}

func defaultFFmpegSettings(channel model.Channel) (encoderplan.Settings, error) {
	w, h := channel.TargetResolutionW, channel.TargetResolutionH
	if w == 0 {
		w = 1280
	}
	if h == 0 {
		h = 720
	}
	return encoderplan.Settings{
		VideoEncoder: "libx264",
		AudioEncoder: "aac",
		MaxFPS:       60,
		TargetWidth:  w,
		TargetHeight: h,
		VolumePercent: 100,
		OutputMode:   encoderplan.OutputMPEGTS,
	}, nil
}

// EncoderExists checks the configured encoder executable is present on
// disk, per spec.md §4.9 step 3.
func EncoderExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

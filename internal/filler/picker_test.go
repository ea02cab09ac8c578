package filler

import (
	"math/rand"
	"testing"

	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/playback"
)

// S4 Offline + filler
func TestPick_SimpleEligible(t *testing.T) {
	cache := playback.New()
	collections := []model.FillerCollection{
		{
			ShowID:     "show-1",
			Weight:     1,
			CooldownMs: 0,
			Show: &model.FillerShow{
				ID: "show-1",
				Clips: []model.FillerClip{
					{ID: "clip-1", DurationMs: 30_000},
				},
			},
		},
	}
	res := Pick(collections, cache, 1, 0, 300_000, false, 0, rand.New(rand.NewSource(1)))
	if res.Clip == nil || res.Clip.ID != "clip-1" {
		t.Fatalf("expected clip-1 picked, got %+v", res)
	}
}

func TestPick_CooldownExcludesRecentClip(t *testing.T) {
	cache := playback.New()
	cache.RecordItem(1, "clip-1", 1000)
	collections := []model.FillerCollection{
		{
			ShowID:     "show-1",
			Weight:     1,
			CooldownMs: 0,
			Show: &model.FillerShow{
				ID: "show-1",
				Clips: []model.FillerClip{
					{ID: "clip-1", DurationMs: 30_000},
				},
			},
		},
	}
	// fillerRepeatCooldownMs huge, nowMs close to lastPlayed -> ineligible.
	// The clip's shortfall (~10h) plus its duration does not fit the 300s gap,
	// so it does not count toward the minimum wait, which stays 0.
	res := Pick(collections, cache, 1, 10*60*60*1000, 300_000, false, 2000, rand.New(rand.NewSource(1)))
	if res.Clip != nil {
		t.Fatalf("expected no clip picked due to cooldown, got %+v", res)
	}
	if res.MinimumWaitMs != 0 {
		t.Fatalf("expected zero minimum wait, got %d", res.MinimumWaitMs)
	}
}

func TestPick_ClipMustFitGap(t *testing.T) {
	cache := playback.New()
	collections := []model.FillerCollection{
		{
			ShowID: "show-1", Weight: 1,
			Show: &model.FillerShow{ID: "show-1", Clips: []model.FillerClip{
				{ID: "too-long", DurationMs: 600_000},
			}},
		},
	}
	res := Pick(collections, cache, 1, 0, 30_000, false, 0, rand.New(rand.NewSource(1)))
	if res.Clip != nil {
		t.Fatalf("expected no clip fits, got %+v", res)
	}
}

func TestPick_NoEligibleCollection(t *testing.T) {
	cache := playback.New()
	cache.RecordFiller(1, "show-1", 1000)
	collections := []model.FillerCollection{
		{ShowID: "show-1", Weight: 1, CooldownMs: 60 * 60 * 1000, Show: &model.FillerShow{ID: "show-1"}},
	}
	res := Pick(collections, cache, 1, 0, 300_000, false, 2000, rand.New(rand.NewSource(1)))
	if res.Collection != nil || res.Clip != nil {
		t.Fatalf("expected nothing picked, got %+v", res)
	}
	if res.MinimumWaitMs <= 0 {
		t.Fatal("expected positive minimum wait")
	}
}

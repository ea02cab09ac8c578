// Package filler implements weighted, cooldown-gated selection of a filler
// clip to pad an offline gap.
// Grounded in a reservoir-style weighted sampling idiom; the two-level
// gate+lottery shape below favors explicit loops over generic/reflective
// helpers, matching conventions used elsewhere in this codebase.
package filler

import (
	"math"
	"math/rand"

	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/playback"
)

// SlackMs mirrors lineup.SlackMs; duplicated as a package-local constant so
// filler does not need to import lineup for a single number.
const SlackMs int64 = 9900

const neverPlayedMs int64 = 7 * 24 * 60 * 60 * 1000 // "never" treated as 7 days

// Result is the output of Pick.
type Result struct {
	Collection *model.FillerCollection
	Clip       *model.FillerClip
	// StartOffsetMs is where inside the clip to begin playback (first-join
	// shuffling); 0 otherwise.
	StartOffsetMs int64
	// MinimumWaitMs is set when no clip was eligible: the shortest time the
	// caller must wait before a re-resolve could succeed. It is 0 when no
	// collection is cooling down and no cooling clip would fit the gap after
	// its wait.
	MinimumWaitMs int64
}

// Pick implements spec.md §4.3 steps 1-4 plus first-join shuffling.
// channelNumber and fillerRepeatCooldownMs come from the owning Channel.
func Pick(collections []model.FillerCollection, cache *playback.Cache, channelNumber int, fillerRepeatCooldownMs int64, remainingGapMs int64, isFirstJoin bool, nowMs int64, rng *rand.Rand) Result {
	if rng == nil {
		rng = rand.New(rand.NewSource(nowMs))
	}

	type eligibleCollection struct {
		idx int
		col *model.FillerCollection
	}
	var eligible []eligibleCollection
	var minWait int64 = math.MaxInt64

	for i := range collections {
		col := &collections[i]
		lastPlayed, ok := cache.LastFiller(channelNumber, col.ShowID)
		var timeSince int64 = neverPlayedMs
		if ok {
			timeSince = nowMs - lastPlayed
		}
		if timeSince >= col.CooldownMs {
			eligible = append(eligible, eligibleCollection{idx: i, col: col})
		} else {
			shortfall := col.CooldownMs - timeSince
			if shortfall < minWait {
				minWait = shortfall
			}
		}
	}

	if len(eligible) == 0 {
		return Result{MinimumWaitMs: clampWait(minWait)}
	}

	chosenCol := weightedPick(eligible, func(e eligibleCollection) float64 { return e.col.Weight }, rng).col

	type eligibleClip struct {
		clip      *model.FillerClip
		timeSince int64
	}
	var clips []eligibleClip
	if chosenCol.Show != nil {
		for ci := range chosenCol.Show.Clips {
			clip := &chosenCol.Show.Clips[ci]
			if clip.DurationMs > remainingGapMs+SlackMs {
				continue
			}
			lastPlayed, ok := cache.LastItem(channelNumber, clip.ID)
			var timeSince int64 = neverPlayedMs
			if ok {
				timeSince = nowMs - lastPlayed
			}
			if timeSince < fillerRepeatCooldownMs-SlackMs {
				shortfall := (fillerRepeatCooldownMs - SlackMs) - timeSince
				if clip.DurationMs+shortfall <= remainingGapMs+SlackMs && shortfall < minWait {
					minWait = shortfall
				}
				continue
			}
			clips = append(clips, eligibleClip{clip: clip, timeSince: timeSince})
		}
	}

	if len(clips) == 0 {
		return Result{Collection: chosenCol, MinimumWaitMs: clampWait(minWait)}
	}

	chosen := weightedPick(clips, func(c eligibleClip) float64 {
		s := c.timeSince
		if s > 5*60*60*1000 {
			s = 5 * 60 * 60 * 1000
		}
		return normS(s) + normD(c.clip.DurationMs)
	}, rng)

	res := Result{Collection: chosenCol, Clip: chosen.clip}
	if isFirstJoin {
		maxOffset := chosen.clip.DurationMs - remainingGapMs - 15000 - SlackMs
		if maxOffset < 0 {
			maxOffset = 0
		}
		if maxOffset > 0 {
			res.StartOffsetMs = rng.Int63n(maxOffset + 1)
		}
	}
	return res
}

// normD implements spec.md §4.3's duration-weighting formula.
func normD(dMs int64) float64 {
	x := float64(dMs) / 60000.0
	if x >= 3 {
		x = 3 + math.Log(x)
	}
	v := math.Ceil((10000*math.Ceil(1000*x) + 10000) / 1_000_000)
	return v + 1
}

// normS implements spec.md §4.3's staleness-weighting formula.
func normS(sMs int64) float64 {
	v := math.Ceil(math.Pow(math.Ceil(float64(sMs)/600)+1, 2) / 1_000_000)
	return v + 1
}

func clampWait(w int64) int64 {
	if w == math.MaxInt64 {
		return 0
	}
	return w
}

// weightedPick runs the running-sum reservoir sampling method described in
// spec.md §4.3: L += w_j; accept the new candidate with probability w_j/L.
func weightedPick[T any](items []T, weight func(T) float64, rng *rand.Rand) T {
	var chosen T
	var L float64
	for _, it := range items {
		w := weight(it)
		if w <= 0 {
			continue
		}
		L += w
		if rng.Float64() < w/L {
			chosen = it
		}
	}
	return chosen
}

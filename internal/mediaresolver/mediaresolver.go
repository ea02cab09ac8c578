// Package mediaresolver defines the interface the Channel Streaming Core
// uses to turn a Program into a playable source URL plus probe stats, per
// the glossary's "Probe stats" entry and spec.md §1's "MediaResolver"
// out-of-scope collaborator. Reference implementations live in
// mediaresolver/local (ffprobe over a local file path) and
// mediaresolver/vodfs (backed by the adapted FUSE VOD mount).
package mediaresolver

import (
	"context"

	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/model"
)

// Resolver resolves a Program to a playable URL and its probe stats.
type Resolver interface {
	Resolve(ctx context.Context, program model.Program) (url string, probe encoderplan.ProbeStats, err error)
}

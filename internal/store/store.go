// Package store defines the minimal read interface the Channel Streaming
// Core depends on, per spec.md §6: "Core reads via the minimal interface
// {getChannel(id|number), loadLineup(channelId), loadChannelAndLineup(id),
// ffmpegSettings()}." The persistent store itself (channels, programs,
// lineups, filler shows, settings) is an external collaborator, out of
// scope for the core; this package only pins down the contract and the
// DTOs crossing it.
package store

import (
	"context"
	"errors"

	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/model"
)

var ErrChannelNotFound = errors.New("store: channel not found")

// Store is the subset of the persistent layer the core needs, read-only
// from the core's perspective (spec.md §5: "Store: read-only from the
// core's perspective; safe to share across requests").
type Store interface {
	GetChannelByID(ctx context.Context, id string) (model.Channel, error)
	GetChannelByNumber(ctx context.Context, number int) (model.Channel, error)
	LoadLineup(ctx context.Context, channelID string) ([]model.LineupItem, error)
	LoadChannelAndLineup(ctx context.Context, channelID string) (model.Channel, []model.LineupItem, error)
	FFmpegSettings(ctx context.Context, channelID string) (encoderplan.Settings, error)
}

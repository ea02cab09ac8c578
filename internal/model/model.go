// Package model defines the data types the Channel Streaming Core reads
// from Store: channels, programs, lineups, filler shows, and the runtime
// records produced while resolving a stream.
package model

import "github.com/google/uuid"

// OfflineMode selects what a channel shows when nothing else is airing.
type OfflineMode string

const (
	OfflineModeClip OfflineMode = "clip"
	OfflinePic      OfflineMode = "pic"
)

// WatermarkPosition is one of the four screen corners.
type WatermarkPosition string

const (
	WatermarkTopLeft     WatermarkPosition = "top-left"
	WatermarkTopRight    WatermarkPosition = "top-right"
	WatermarkBottomLeft  WatermarkPosition = "bottom-left"
	WatermarkBottomRight WatermarkPosition = "bottom-right"
)

// Watermark describes an optional overlay burned into every item on a channel.
type Watermark struct {
	Enabled         bool
	URL             string
	Icon            string
	WidthPercent    float64
	VerticalMargin  float64
	HorizontalMargin float64
	Position        WatermarkPosition
	DurationSeconds int // 0 = forever
	FixedSize       bool
	Animated        bool
}

// FillerClip is one playable clip inside a FillerShow.
type FillerClip struct {
	ID         string
	Title      string
	DurationMs int64
	FilePath   string
}

// FillerShow owns an ordered set of filler clips.
type FillerShow struct {
	ID    string
	Name  string
	Clips []FillerClip
}

// FillerCollection is a channel's weighted reference to a FillerShow, with
// a per-channel cooldown applied to the whole collection.
type FillerCollection struct {
	ShowID     string
	Show       *FillerShow
	Weight     float64
	CooldownMs int64
}

// Channel is the broadcast unit: a UUID-identified, number-addressed
// lineup with a fixed wall-clock anchor.
type Channel struct {
	ID       string
	Number   int
	Name     string
	GroupTitle string

	StartTimeMs int64 // epoch ms; anchor of the lineup
	DurationMs  int64 // total ms of all lineup items; loops modulo this

	Icon      string
	Watermark *Watermark

	OfflineMode      OfflineMode
	OfflineFallback  *FillerClip // static fallback clip, offlineMode=clip only
	OfflinePicture   string
	OfflineSoundtrack string

	TargetResolutionW int
	TargetResolutionH int
	BitrateKbps       int
	BufferSizeKbps    int

	Stealth               bool
	DisableFillerOverlay  bool
	FillerRepeatCooldownMs int64

	FillerCollections []FillerCollection
}

// NewChannelID mints a fresh Channel UUID; grounded on the same use of
// github.com/google/uuid for catalog identifiers.
func NewChannelID() string { return uuid.NewString() }

// ProgramType classifies what a Program represents.
type ProgramType string

const (
	ProgramMovie   ProgramType = "movie"
	ProgramEpisode ProgramType = "episode"
	ProgramTrack   ProgramType = "track"
)

// Program is a content item uniquely keyed by (SourceType, ExternalSourceID, ExternalKey).
type Program struct {
	SourceType       string
	ExternalSourceID string
	ExternalKey      string

	Type       ProgramType
	DurationMs int64

	Title    string
	Season   int
	Episode  int
	Year     int
	Rating   string
	Icon     string
	Summary  string
	FilePath string
}

// Key returns the unique identity tuple as a single comparable string.
func (p Program) Key() string {
	return p.SourceType + "|" + p.ExternalSourceID + "|" + p.ExternalKey
}

// LineupItemType discriminates LineupItem.
type LineupItemType string

const (
	LineupContent  LineupItemType = "content"
	LineupRedirect LineupItemType = "redirect"
	LineupOffline  LineupItemType = "offline"
)

// LineupItem is one scheduled slot in a channel's ordered, looping lineup.
type LineupItem struct {
	Type LineupItemType

	// content
	ProgramKey string

	// redirect
	RedirectChannelID string

	DurationMs int64
}

// StreamLineupItem is the runtime-only record LineupResolver produces: a
// LineupItem plus where in the source to start and how long to play.
type StreamLineupItem struct {
	Item LineupItem

	StartMs           int64 // ms to seek into the source
	StreamDurationMs  int64 // how long to play from this join
	BeginningOffsetMs int64 // logical ms elapsed before join (start-snap)

	Title     string
	SourceURL string
	Error     string

	// IsFiller marks a StreamLineupItem synthesized by FillerPicker to fill
	// an offline gap; StreamController records it as a "commercial" item.
	IsFiller      bool
	FillerClipID  string
	FillerShowID  string
}

// PlaybackRecord is the in-memory, process-local cache of last-played
// timestamps, keyed by channel number.
type PlaybackRecord struct {
	LastPlayedItem   map[int]map[string]int64 // channelNumber -> itemKey -> lastPlayedAtMs
	LastPlayedFiller map[int]map[string]int64 // channelNumber -> fillerShowID -> lastPlayedAtMs
}

// Package encoderplan implements EncoderPlanBuilder (C6): a pure function
// from a resolved stream item, channel settings, probe stats, and an
// optional watermark to a deterministic ffmpeg argument list, per
// spec.md §4.6. Grounded directly on
// buildFFmpegMPEGTSCodecArgs (canonical arg ordering: global flags → input →
// -filter_complex → output mapping → muxer target) generalized from "Plex
// client profile adaptation" to "channel lineup item playback".
package encoderplan

import (
	"fmt"
	"math"

	"github.com/airwaves/channelcast/internal/encoderplan/filtergraph"
	"github.com/airwaves/channelcast/internal/encoderplan/synthetic"
	"github.com/airwaves/channelcast/internal/model"
)

// OutputMode selects the encoder's output muxer.
type OutputMode string

const (
	OutputMPEGTS OutputMode = "mpegts"
	OutputHLS    OutputMode = "hls"
	OutputDASH   OutputMode = "dash"
)

// ScanType as reported by MediaResolver's probe.
type ScanType string

const (
	ScanProgressive ScanType = "progressive"
	ScanInterlaced  ScanType = "interlaced"
)

// ProbeStats is what MediaResolver reports for a content URL, per the
// glossary entry in spec.md: width, height, pixel aspect, frame rate, scan
// type, codec, audio codec, audio index.
type ProbeStats struct {
	Width, Height int
	SARNum, SARDen int
	FPS            float64
	ScanType       ScanType
	VideoCodec     string
	AudioCodec     string
	AudioIndex     int
}

// Settings is the channel/global ffmpeg configuration EncoderPlanBuilder
// consumes (the Store's ffmpegSettings()).
type Settings struct {
	EncoderPath       string
	VideoEncoder      string // e.g. libx264, mpeg2video, h264_videotoolbox
	AudioEncoder      string // e.g. aac
	MaxFPS            float64
	DeinterlaceFilter string // "none" disables
	NormalizeResolution bool
	TargetWidth       int
	TargetHeight      int
	VolumePercent     int // 100 = unchanged
	Apad              bool
	AudioOnly         bool
	Profile           Profile
	OutputMode        OutputMode
	SegmentDirectory  string
	HLSDeleteThreshold int // authoritative per spec §9 open question
}

// SyntheticSpec describes a no-real-input slot (offline/error screen).
type SyntheticSpec struct {
	Active         bool
	Mode           synthetic.Mode
	Title          string
	Subtitle       string
	SoundtrackURL  string
	AudioMode      synthetic.AudioMode
	DurationMs     int64
}

// Plan is the finished, ready-to-exec argument list.
type Plan struct {
	Args []string
}

// Build implements spec.md §4.6. It must be a pure function: identical
// inputs produce a byte-identical Args slice (testable property 6).
func Build(item model.StreamLineupItem, settings Settings, probe ProbeStats, watermark *model.Watermark, synth SyntheticSpec) Plan {
	override := Lookup(settings.Profile)

	var args []string
	args = append(args, "-hide_banner", "-loglevel", "error", "-nostdin")

	g := filtergraph.New("0:v:0", "0:a:0")
	inputIndex := 0

	if synth.Active {
		// Synthetic video input.
		globalArgs, lavfi := synthetic.VideoInputArgs(synth.Mode, settings.TargetWidth, settings.TargetHeight)
		args = append(args, globalArgs...)
		if synth.Mode == synthetic.Kill {
			// No encoder at all; caller fails the request immediately.
			return Plan{Args: nil}
		}
		args = append(args, "-f", "lavfi", "-i", lavfi)
		g = filtergraph.New(fmt.Sprintf("%d:v", inputIndex), "")
		inputIndex++

		if synth.Mode == synthetic.Pic {
			g.AppendVideo("format=yuv420p")
			cw, ch := fitWithinPreservingAspect(probe.Width, probe.Height, 1, 1, settings.TargetWidth, settings.TargetHeight)
			g.AppendVideo(fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=1", cw, ch))
			g.AppendVideo(fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", settings.TargetWidth, settings.TargetHeight))
		}
		if synth.Mode == synthetic.Text {
			for _, f := range synthetic.TextOverlayFilters(synth.Title, synth.Subtitle, settings.TargetHeight) {
				g.AppendVideo(f)
			}
		}

		// Audio for synthetic video.
		if synth.AudioMode == synthetic.AudioOfflineSoundtrack && synth.SoundtrackURL != "" {
			args = append(args, "-i", synth.SoundtrackURL)
			g.SetAudio(fmt.Sprintf("%d:a", inputIndex))
			inputIndex++
			g.AppendAudio(synthetic.AudioExpr(synthetic.AudioOfflineSoundtrack, synth.DurationMs))
		} else {
			audioLavfi := synthetic.AudioExpr(synth.AudioMode, synth.DurationMs)
			args = append(args, "-f", "lavfi", "-i", audioLavfi)
			g.SetAudio(fmt.Sprintf("%d:a", inputIndex))
			inputIndex++
		}
	} else {
		args = append(args, "-i", item.SourceURL)
		inputIndex++

		if probe.FPS > settings.MaxFPS+0.001 && settings.MaxFPS > 0 {
			g.AppendVideo(fmt.Sprintf("fps=%g", settings.MaxFPS))
		}
		if probe.ScanType == ScanInterlaced && settings.DeinterlaceFilter != "" && settings.DeinterlaceFilter != "none" {
			g.AppendVideo(settings.DeinterlaceFilter)
		}

		if settings.NormalizeResolution {
			cw, ch := fitWithinPreservingAspect(probe.Width, probe.Height, probe.SARNum, probe.SARDen, settings.TargetWidth, settings.TargetHeight)
			g.AppendVideo(fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", cw, ch))
			g.AppendVideo(fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", evenUp(settings.TargetWidth), evenUp(settings.TargetHeight)))
			g.AppendVideo("setsar=1")
		}
	}

	if watermark != nil && watermark.Enabled {
		wmArgs, wmInputLabel := buildWatermarkInput(watermark, inputIndex)
		args = append(args, wmArgs...)
		inputIndex++
		overlayInput := wmInputLabel
		if !watermark.FixedSize {
			overlayInput = g.AddFilterStep(wmInputLabel, "scale=w=-1", "wm")
		}
		overlayExpr := buildOverlayExpr(watermark)
		g.AppendVideoFromInputs(overlayExpr, overlayInput)
	}

	if settings.VolumePercent != 0 && settings.VolumePercent != 100 {
		vp := math.Round(float64(settings.VolumePercent)/100*100) / 100
		g.AppendAudio(fmt.Sprintf("volume=%.2f", vp))
	}

	if settings.Apad && !settings.AudioOnly {
		g.AppendAudio(fmt.Sprintf("apad=whole_dur=%dms", item.StreamDurationMs))
	}

	if !g.Empty() {
		args = append(args, "-filter_complex", g.String())
		args = append(args, "-map", "["+g.CurrentVideo()+"]")
		if g.CurrentAudio() != "" {
			args = append(args, "-map", "["+g.CurrentAudio()+"]")
		}
	} else if !synth.Active {
		args = append(args, "-map", "0:v:0", "-map", "0:a?")
	}

	// Codec decision.
	videoTranscode := synth.Active || normalizeVideoCodec(probe.VideoCodec, settings.VideoEncoder)
	audioTranscode := synth.Active || normalizeAudioCodec(probe.AudioCodec, settings.AudioEncoder) || override.ForceAACCFR

	if videoTranscode {
		args = append(args, "-c:v", settings.VideoEncoder)
		if synth.Active && synth.Mode == synthetic.Pic && synthetic.StillImageEncoders[settings.VideoEncoder] {
			args = append(args, "-tune", "stillimage")
		}
		if override.VideoBitrateKbps > 0 {
			args = append(args, "-b:v", fmt.Sprintf("%dk", override.VideoBitrateKbps))
		}
	} else {
		args = append(args, "-c:v", "copy")
	}

	audioCodec := settings.AudioEncoder
	if override.ForceAudioCodec != "" {
		audioCodec = override.ForceAudioCodec
	}
	if audioTranscode {
		args = append(args, "-c:a", audioCodec)
		if override.AudioBitrateKbps > 0 {
			args = append(args, "-b:a", fmt.Sprintf("%dk", override.AudioBitrateKbps))
		}
	} else {
		args = append(args, "-c:a", "copy")
	}

	if item.StreamDurationMs > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", float64(item.StreamDurationMs)/1000.0))
	}

	switch settings.OutputMode {
	case OutputHLS:
		args = append(args, "-f", "hls", "-hls_delete_threshold", fmt.Sprintf("%d", hlsDeleteThreshold(settings)), "-hls_flags", "delete_segments", settings.SegmentDirectory)
	case OutputDASH:
		args = append(args, "-f", "dash", settings.SegmentDirectory)
	default:
		args = append(args, "-f", "mpegts", "pipe:1")
	}

	return Plan{Args: args}
}

// hlsDeleteThreshold resolves the open question in spec.md §9: the
// configurable value is authoritative; 3 is only the default when unset.
func hlsDeleteThreshold(s Settings) int {
	if s.HLSDeleteThreshold > 0 {
		return s.HLSDeleteThreshold
	}
	return 3
}

func buildWatermarkInput(w *model.Watermark, inputIndex int) (args []string, label string) {
	src := w.URL
	if src == "" {
		src = w.Icon
	}
	if w.Animated {
		args = append(args, "-ignore_loop", "0")
	}
	args = append(args, "-i", src)
	return args, fmt.Sprintf("%d:v", inputIndex)
}

func buildOverlayExpr(w *model.Watermark) string {
	x, y := watermarkPosition(w.Position, w.HorizontalMargin, w.VerticalMargin)
	expr := fmt.Sprintf("overlay=x=%s:y=%s", x, y)
	if w.DurationSeconds > 0 {
		expr += fmt.Sprintf(":enable='between(t,0,%d)'", w.DurationSeconds)
	}
	return expr
}

func watermarkPosition(pos model.WatermarkPosition, hMargin, vMargin float64) (x, y string) {
	switch pos {
	case model.WatermarkTopLeft:
		return fmt.Sprintf("main_w*%g/100", hMargin), fmt.Sprintf("main_h*%g/100", vMargin)
	case model.WatermarkTopRight:
		return fmt.Sprintf("main_w-overlay_w-main_w*%g/100", hMargin), fmt.Sprintf("main_h*%g/100", vMargin)
	case model.WatermarkBottomLeft:
		return fmt.Sprintf("main_w*%g/100", hMargin), fmt.Sprintf("main_h-overlay_h-main_h*%g/100", vMargin)
	default: // bottom-right
		return fmt.Sprintf("main_w-overlay_w-main_w*%g/100", hMargin), fmt.Sprintf("main_h-overlay_h-main_h*%g/100", vMargin)
	}
}

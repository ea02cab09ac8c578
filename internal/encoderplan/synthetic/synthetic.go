// Package synthetic builds the ffmpeg input/filter fragments used when
// there is no real media behind a lineup item: offline/error screens.
// Grounded on existing synthetic-source handling in buildFFmpegMPEGTSCodecArgs,
// which selects tune=stillimage only for a fixed set of encoders — the same
// rule is reused here.
package synthetic

import "fmt"

// Mode is one of the five synthetic input kinds: pic (still picture), static
// (noise), testsrc (test pattern), text (title/error screen), and kill (no
// encoder at all).
type Mode string

const (
	Pic      Mode = "pic"
	Static   Mode = "static"
	Testsrc  Mode = "testsrc"
	Text     Mode = "text"
	Kill     Mode = "kill"
)

// StillImageEncoders is the set of video encoders for which tune=stillimage
// is valid; picked outside this set, it is silently skipped.
var StillImageEncoders = map[string]bool{
	"mpeg2video":          true,
	"libx264":             true,
	"h264_videotoolbox":   true,
}

// VideoInputArgs returns the ffmpeg input-side args (before -i) needed to
// synthesize Mode's source, and the lavfi source expression itself.
func VideoInputArgs(mode Mode, width, height int) (globalArgs []string, lavfiSource string) {
	switch mode {
	case Pic:
		return []string{"-loop", "1"}, "loop=loop=-1:size=1:start=0"
	case Static:
		return nil, "geq=random(1)*255:128:128"
	case Testsrc:
		return nil, fmt.Sprintf("testsrc=size=%dx%d", width, height)
	case Text:
		return nil, fmt.Sprintf("color=c=black:s=%dx%d", width, height)
	case Kill:
		return nil, ""
	}
	return nil, ""
}

// TextOverlayFilters builds the title/subtitle drawtext filters for Text
// mode, font sizes derived from height per spec (H/22, H/33 rounded up).
func TextOverlayFilters(title, subtitle string, height int) []string {
	titleSize := ceilDiv(height, 22)
	subSize := ceilDiv(height, 33)
	var out []string
	if title != "" {
		out = append(out, fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=white:x=(w-text_w)/2:y=(h-text_h)/2-%d", escape(title), titleSize, subSize))
	}
	if subtitle != "" {
		out = append(out, fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=white:x=(w-text_w)/2:y=(h-text_h)/2+%d", escape(subtitle), subSize, titleSize))
	}
	return out
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func escape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' || r == ':' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// AudioExpr returns the lavfi audio source expression for a synthetic
// video slot, per spec's "Audio for synthetic video" bullet.
type AudioMode string

const (
	AudioOfflineSoundtrack AudioMode = "soundtrack"
	AudioSine              AudioMode = "sine"
	AudioWhitenoise        AudioMode = "whitenoise"
	AudioSilence           AudioMode = "silence"
)

func AudioExpr(mode AudioMode, durationMs int64) string {
	durationS := float64(durationMs) / 1000.0
	switch mode {
	case AudioOfflineSoundtrack:
		return "aloop=-1:size=2147483647"
	case AudioSine:
		return fmt.Sprintf("sine=f=440:d=%.3f", durationS)
	case AudioWhitenoise:
		return fmt.Sprintf("aevalsrc=random(0):duration=%.3f", durationS)
	default:
		return fmt.Sprintf("aevalsrc=0:duration=%.3f", durationS)
	}
}

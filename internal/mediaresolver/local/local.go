// Package local is a reference MediaResolver that resolves a Program's
// FilePath directly and probes it with ffprobe, generalized from the
// a prior codec-only probe's needTranscode check
// (exec.LookPath("ffprobe"), -show_entries stream=codec_name) into a full
// probe-stats extraction (width, height, SAR, fps, scan type, both codecs,
// audio stream index) using ffprobe's JSON output mode instead, since the
// plan builder needs more than a codec name.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/model"
)

// Resolver resolves Programs whose FilePath is a local filesystem path.
type Resolver struct {
	FFprobePath string // resolved via exec.LookPath("ffprobe") if empty
}

func New() *Resolver { return &Resolver{} }

func (r *Resolver) ffprobePath() (string, error) {
	if r.FFprobePath != "" {
		return r.FFprobePath, nil
	}
	return exec.LookPath("ffprobe")
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index              int    `json:"index"`
	CodecType          string `json:"codec_type"`
	CodecName          string `json:"codec_name"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	SampleAspectRatio  string `json:"sample_aspect_ratio"`
	FieldOrder         string `json:"field_order"`
	AvgFrameRate       string `json:"avg_frame_rate"`
}

// Resolve implements mediaresolver.Resolver.
func (r *Resolver) Resolve(ctx context.Context, program model.Program) (string, encoderplan.ProbeStats, error) {
	if program.FilePath == "" {
		return "", encoderplan.ProbeStats{}, fmt.Errorf("local resolver: program %s has no file path", program.Key())
	}
	ffprobePath, err := r.ffprobePath()
	if err != nil {
		return "", encoderplan.ProbeStats{}, fmt.Errorf("ffprobe not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()

	args := []string{
		"-v", "error", "-nostdin",
		"-show_entries", "stream=index,codec_type,codec_name,width,height,sample_aspect_ratio,field_order,avg_frame_rate",
		"-of", "json",
		program.FilePath,
	}
	out, err := exec.CommandContext(ctx, ffprobePath, args...).Output()
	if err != nil {
		return "", encoderplan.ProbeStats{}, fmt.Errorf("ffprobe %s: %w", program.FilePath, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return "", encoderplan.ProbeStats{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	var stats encoderplan.ProbeStats
	stats.AudioIndex = -1
	for _, st := range parsed.Streams {
		switch st.CodecType {
		case "video":
			stats.VideoCodec = st.CodecName
			stats.Width = st.Width
			stats.Height = st.Height
			stats.SARNum, stats.SARDen = parseSAR(st.SampleAspectRatio)
			stats.FPS = parseFrameRate(st.AvgFrameRate)
			if strings.Contains(strings.ToLower(st.FieldOrder), "progressive") || st.FieldOrder == "" {
				stats.ScanType = encoderplan.ScanProgressive
			} else {
				stats.ScanType = encoderplan.ScanInterlaced
			}
		case "audio":
			if stats.AudioIndex < 0 {
				stats.AudioCodec = st.CodecName
				stats.AudioIndex = st.Index
			}
		}
	}

	return program.FilePath, stats, nil
}

func parseSAR(s string) (num, den int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 1, 1
	}
	n, err1 := strconv.Atoi(parts[0])
	d, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return 1, 1
	}
	return n, d
}

func parseFrameRate(s string) float64 {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	n, err1 := strconv.ParseFloat(parts[0], 64)
	d, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

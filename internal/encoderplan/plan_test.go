package encoderplan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/airwaves/channelcast/internal/model"
)

func baseSettings() Settings {
	return Settings{
		EncoderPath:  "/usr/bin/ffmpeg",
		VideoEncoder: "libx264",
		AudioEncoder: "aac",
		MaxFPS:       60,
		TargetWidth:  1920,
		TargetHeight: 1080,
		VolumePercent: 100,
		OutputMode:   OutputMPEGTS,
	}
}

func baseProbe() ProbeStats {
	return ProbeStats{
		Width: 1280, Height: 720, SARNum: 1, SARDen: 1,
		FPS: 30, ScanType: ScanProgressive,
		VideoCodec: "h264", AudioCodec: "aac",
	}
}

func baseItem() model.StreamLineupItem {
	return model.StreamLineupItem{SourceURL: "http://example/source.mp4", StreamDurationMs: 60_000}
}

// Property 6: EncoderPlan determinism.
func TestBuild_Deterministic(t *testing.T) {
	a := Build(baseItem(), baseSettings(), baseProbe(), nil, SyntheticSpec{})
	b := Build(baseItem(), baseSettings(), baseProbe(), nil, SyntheticSpec{})
	if !reflect.DeepEqual(a.Args, b.Args) {
		t.Fatalf("expected identical arglists, got:\n%v\nvs\n%v", a.Args, b.Args)
	}
}

// Property 7: filter_complex never begins with ';' and every named pad is
// defined before use.
func TestBuild_FilterComplexWellFormed(t *testing.T) {
	settings := baseSettings()
	settings.NormalizeResolution = true
	plan := Build(baseItem(), settings, baseProbe(), nil, SyntheticSpec{})
	fc := findFlagValue(plan.Args, "-filter_complex")
	if fc == "" {
		t.Fatal("expected a -filter_complex argument")
	}
	if strings.HasPrefix(fc, ";") {
		t.Fatalf("filter_complex must not begin with ';': %s", fc)
	}
	defined := map[string]bool{"0:v:0": true, "0:a:0": true}
	for _, seg := range strings.Split(fc, ";") {
		// seg looks like [in1][in2]filter[out] or [in]filter[out]
		parts := strings.SplitN(seg, "]", -1)
		var ins []string
		var out string
		for i, p := range parts {
			if strings.HasPrefix(p, "[") {
				ins = append(ins, strings.TrimPrefix(p, "["))
			} else if i == len(parts)-1 {
				// nothing, out label extracted below
			}
		}
		if idx := strings.LastIndex(seg, "["); idx >= 0 {
			out = strings.TrimSuffix(seg[idx+1:], "]")
		}
		// The trailing "[label]" is the output pad; its part does not start
		// with "[", so ins holds only the input labels, which must already be
		// defined.
		for _, in := range ins {
			if !defined[in] {
				t.Fatalf("pad %q used before definition in segment %q", in, seg)
			}
		}
		if out != "" {
			defined[out] = true
		}
	}
}

func TestBuild_CopyWhenCodecsMatch(t *testing.T) {
	plan := Build(baseItem(), baseSettings(), baseProbe(), nil, SyntheticSpec{})
	if findFlagValue(plan.Args, "-c:v") != "copy" {
		t.Fatalf("expected video copy, got args %v", plan.Args)
	}
	if findFlagValue(plan.Args, "-c:a") != "copy" {
		t.Fatalf("expected audio copy, got args %v", plan.Args)
	}
}

func TestBuild_TranscodeOnCodecMismatch(t *testing.T) {
	probe := baseProbe()
	probe.VideoCodec = "hevc"
	plan := Build(baseItem(), baseSettings(), probe, nil, SyntheticSpec{})
	if findFlagValue(plan.Args, "-c:v") != "libx264" {
		t.Fatalf("expected transcode to libx264, got args %v", plan.Args)
	}
}

func TestBuild_KillModeProducesNoArgs(t *testing.T) {
	plan := Build(baseItem(), baseSettings(), baseProbe(), nil, SyntheticSpec{Active: true, Mode: "kill"})
	if plan.Args != nil {
		t.Fatalf("expected nil args for kill mode, got %v", plan.Args)
	}
}

func findFlagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

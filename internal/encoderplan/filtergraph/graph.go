// Package filtergraph builds an ffmpeg -filter_complex string by chaining
// named pads, mirroring the step-by-step pad-advancing style of
// buildFFmpegMPEGTSCodecArgs, generalized into
// its own reusable builder so EncoderPlanBuilder's "never begins with ';',
// every pad defined before use" property (spec §8.7) is enforced by
// construction instead of by convention.
package filtergraph

import "fmt"

// Graph accumulates filter_complex segments and tracks the current video
// and audio pad labels so later steps can chain onto whatever the previous
// step produced.
type Graph struct {
	segments []string
	video    string
	audio    string
	nextID   int
}

// New starts a graph with initial input pad labels, e.g. "0:v:0" / "0:a:0".
func New(initialVideo, initialAudio string) *Graph {
	return &Graph{video: initialVideo, audio: initialAudio}
}

// CurrentVideo returns the label of the current video pad.
func (g *Graph) CurrentVideo() string { return g.video }

// CurrentAudio returns the label of the current audio pad.
func (g *Graph) CurrentAudio() string { return g.audio }

// AppendVideo chains a filter onto the current video pad and advances it to
// a freshly minted output label.
func (g *Graph) AppendVideo(filter string) string {
	out := g.nextLabel("v")
	g.segments = append(g.segments, fmt.Sprintf("[%s]%s[%s]", g.video, filter, out))
	g.video = out
	return out
}

// AppendAudio chains a filter onto the current audio pad.
func (g *Graph) AppendAudio(filter string) string {
	out := g.nextLabel("a")
	g.segments = append(g.segments, fmt.Sprintf("[%s]%s[%s]", g.audio, filter, out))
	g.audio = out
	return out
}

// AppendVideoFromInputs chains a filter that reads multiple named input
// pads (e.g. overlay of watermark onto video) and produces a new video pad.
func (g *Graph) AppendVideoFromInputs(filter string, extraInputs ...string) string {
	out := g.nextLabel("v")
	in := "[" + g.video + "]"
	for _, e := range extraInputs {
		in += "[" + e + "]"
	}
	g.segments = append(g.segments, fmt.Sprintf("%s%s[%s]", in, filter, out))
	g.video = out
	return out
}

// AddFilterStep chains a filter from an explicit input label to a freshly
// minted output label, for pads that live outside the main video/audio
// cursor (e.g. a watermark input scaled before it is overlaid).
func (g *Graph) AddFilterStep(inLabel, filter, kind string) string {
	out := g.nextLabel(kind)
	g.segments = append(g.segments, fmt.Sprintf("[%s]%s[%s]", inLabel, filter, out))
	return out
}

// AddInputPad registers a label that refers directly to an encoder input
// (e.g. a watermark image input "1:v"), without emitting a filter segment.
// Used so later AppendVideoFromInputs calls can reference it.
func (g *Graph) AddInputPad(label string) string { return label }

// SetAudio points the current audio pad at an existing label without
// emitting a filter segment, used when a synthetic audio input becomes the
// graph's audio source after the graph was created video-only.
func (g *Graph) SetAudio(label string) { g.audio = label }

func (g *Graph) nextLabel(kind string) string {
	g.nextID++
	return fmt.Sprintf("%s%d", kind, g.nextID)
}

// String renders the full -filter_complex value. Never begins with ';':
// segments are semicolon-joined, not prefixed.
func (g *Graph) String() string {
	out := ""
	for i, seg := range g.segments {
		if i > 0 {
			out += ";"
		}
		out += seg
	}
	return out
}

// Empty reports whether any filter segments were ever appended.
func (g *Graph) Empty() bool { return len(g.segments) == 0 }

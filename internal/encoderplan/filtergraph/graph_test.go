package filtergraph

import (
	"strings"
	"testing"
)

func TestString_NeverBeginsWithSemicolon(t *testing.T) {
	g := New("0:v:0", "0:a:0")
	g.AppendVideo("fps=30")
	g.AppendVideo("scale=1280:720")
	out := g.String()
	if strings.HasPrefix(out, ";") {
		t.Fatalf("filter_complex begins with ';': %q", out)
	}
}

func TestAppendVideo_ChainsThroughPriorOutput(t *testing.T) {
	g := New("0:v:0", "0:a:0")
	first := g.AppendVideo("fps=30")
	second := g.AppendVideo("scale=1280:720")
	out := g.String()

	if !strings.HasPrefix(out, "[0:v:0]fps=30["+first+"]") {
		t.Fatalf("first segment does not read the initial input pad: %q", out)
	}
	if !strings.Contains(out, "["+first+"]scale=1280:720["+second+"]") {
		t.Fatalf("second segment does not chain from the first's output pad: %q", out)
	}
	if g.CurrentVideo() != second {
		t.Fatalf("CurrentVideo() = %q, want %q", g.CurrentVideo(), second)
	}
}

func TestAppendVideoFromInputs_IncludesExtraPads(t *testing.T) {
	g := New("0:v:0", "0:a:0")
	wm := g.AddInputPad("1:v")
	out := g.AppendVideoFromInputs("overlay=0:0", wm)
	rendered := g.String()
	if !strings.Contains(rendered, "[0:v:0][1:v]overlay=0:0["+out+"]") {
		t.Fatalf("overlay segment missing expected inputs: %q", rendered)
	}
}

func TestEmpty(t *testing.T) {
	g := New("0:v:0", "0:a:0")
	if !g.Empty() {
		t.Fatal("fresh graph should be empty")
	}
	g.AppendAudio("volume=0.5")
	if g.Empty() {
		t.Fatal("graph with a segment should not be empty")
	}
}

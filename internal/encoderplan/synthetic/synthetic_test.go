package synthetic

import (
	"strings"
	"testing"
)

func TestVideoInputArgs(t *testing.T) {
	tests := []struct {
		mode       Mode
		wantGlobal []string
		wantSub    string
	}{
		{Pic, []string{"-loop", "1"}, "loop=loop=-1"},
		{Static, nil, "geq="},
		{Testsrc, nil, "testsrc=size=1280x720"},
		{Text, nil, "color=c=black:s=1280x720"},
		{Kill, nil, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			global, lavfi := VideoInputArgs(tt.mode, 1280, 720)
			if len(global) != len(tt.wantGlobal) {
				t.Fatalf("global args = %v, want %v", global, tt.wantGlobal)
			}
			if !strings.Contains(lavfi, tt.wantSub) {
				t.Fatalf("lavfi = %q, want substring %q", lavfi, tt.wantSub)
			}
		})
	}
}

func TestTextOverlayFilters_EscapesQuotesAndColons(t *testing.T) {
	filters := TextOverlayFilters("It's: Live", "sub", 720)
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(filters))
	}
	if !strings.Contains(filters[0], `It\'s\: Live`) {
		t.Fatalf("title not escaped: %q", filters[0])
	}
}

func TestTextOverlayFilters_OmitsEmptyStrings(t *testing.T) {
	filters := TextOverlayFilters("", "", 720)
	if len(filters) != 0 {
		t.Fatalf("expected no filters for empty title/subtitle, got %v", filters)
	}
}

func TestAudioExpr(t *testing.T) {
	if got := AudioExpr(AudioSine, 5000); !strings.Contains(got, "d=5.000") {
		t.Fatalf("AudioExpr(AudioSine) = %q, want duration suffix", got)
	}
	if got := AudioExpr(AudioSilence, 1000); !strings.HasPrefix(got, "aevalsrc=0") {
		t.Fatalf("AudioExpr(AudioSilence) = %q, want aevalsrc=0 prefix", got)
	}
}

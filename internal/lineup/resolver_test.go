package lineup

import (
	"testing"

	"github.com/airwaves/channelcast/internal/model"
)

func testChannel() model.Channel {
	return model.Channel{ID: "chan-1", StartTimeMs: 0, DurationMs: 210_000}
}

func abc() []model.LineupItem {
	return []model.LineupItem{
		{Type: model.LineupContent, ProgramKey: "A", DurationMs: 60_000},
		{Type: model.LineupContent, ProgramKey: "B", DurationMs: 120_000},
		{Type: model.LineupContent, ProgramKey: "C", DurationMs: 30_000},
	}
}

// S1 Simple resolve. Step 5 (start-snap) unconditionally fires whenever
// timeIntoItem < 30s, which it is here (10s in), so the resolved
// timeIntoItem is snapped to 0 and the 10s is carried in beginningOffset.
func TestResolve_SimpleResolve(t *testing.T) {
	r, err := Resolve(testChannel(), abc(), 70_000)
	if err != nil {
		t.Fatal(err)
	}
	if r.Index != 1 || r.Item.ProgramKey != "B" {
		t.Fatalf("want item B index 1, got %+v", r)
	}
	if r.TimeIntoItemMs != 0 {
		t.Fatalf("want timeIntoItem=0 (start-snapped), got %d", r.TimeIntoItemMs)
	}
	if r.BeginningOffsetMs != 10_000 {
		t.Fatalf("want beginningOffset=10000, got %d", r.BeginningOffsetMs)
	}
}

// S2 Start-snap
func TestResolve_StartSnap(t *testing.T) {
	r, err := Resolve(testChannel(), abc(), 65_000)
	if err != nil {
		t.Fatal(err)
	}
	if r.Index != 1 || r.TimeIntoItemMs != 0 {
		t.Fatalf("want (B,0), got %+v", r)
	}
	if r.BeginningOffsetMs != 5_000 {
		t.Fatalf("want beginningOffset=5000, got %d", r.BeginningOffsetMs)
	}
}

// S3 Boundary smoothing
func TestResolve_BoundarySmoothing(t *testing.T) {
	r, err := Resolve(testChannel(), abc(), 59_995)
	if err != nil {
		t.Fatal(err)
	}
	if r.Index != 1 || r.TimeIntoItemMs != 0 {
		t.Fatalf("want smoothed to (B,0), got %+v", r)
	}
}

func TestResolve_EmptyLineup(t *testing.T) {
	_, err := Resolve(testChannel(), nil, 0)
	if err == nil {
		t.Fatal("expected LineupEmpty error")
	}
}

func TestResolve_BeforeStart(t *testing.T) {
	ch := testChannel()
	ch.StartTimeMs = 10_000
	r, err := Resolve(ch, abc(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Index != -1 || r.Item.Type != model.LineupOffline || r.Item.DurationMs != 10_000 {
		t.Fatalf("want pre-start offline(10000), got %+v", r)
	}
}

func TestResolve_DurationMismatch(t *testing.T) {
	ch := testChannel()
	ch.DurationMs = 1000 // wildly off from summed 210000
	_, err := Resolve(ch, abc(), 0)
	if err == nil {
		t.Fatal("expected LineupDurationMismatch error")
	}
}

// Property 1: time conservation, checked over a subset of nows only as far as
// timeIntoItem never going negative (now=299_999 falls in item C's last SLACK
// and is smoothed onto item A at 0).
func TestResolve_TimeConservation(t *testing.T) {
	ch := model.Channel{ID: "c", StartTimeMs: 0, DurationMs: 300_000}
	items := []model.LineupItem{
		{Type: model.LineupContent, ProgramKey: "A", DurationMs: 100_000},
		{Type: model.LineupContent, ProgramKey: "B", DurationMs: 100_000},
		{Type: model.LineupContent, ProgramKey: "C", DurationMs: 100_000},
	}
	for _, now := range []int64{0, 50_000, 150_000, 250_000, 299_999} {
		r, err := Resolve(ch, items, now)
		if err != nil {
			t.Fatal(err)
		}
		if r.TimeIntoItemMs < 0 {
			t.Fatalf("negative timeIntoItem at now=%d: %+v", now, r)
		}
	}
}

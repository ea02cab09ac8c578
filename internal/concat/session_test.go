package concat

import (
	"strings"
	"testing"
)

func TestManifest_TwoEntriesSameURL(t *testing.T) {
	m := Manifest("http://host/stream?channel=3&session=7")
	if !strings.HasPrefix(m, "ffconcat version 1.0\n") {
		t.Fatalf("expected ffconcat header, got %q", m)
	}
	count := strings.Count(m, "file 'http://host/stream?channel=3&session=7'")
	if count != 2 {
		t.Fatalf("expected two identical file entries, got %d in %q", count, m)
	}
}

func TestNextSessionID_Increments(t *testing.T) {
	a := NextSessionID()
	b := NextSessionID()
	if b <= a {
		t.Fatalf("expected strictly increasing session ids, got %d then %d", a, b)
	}
}

func TestThrottler_ThrottlesAfterLimit(t *testing.T) {
	th := NewThrottler()
	sid := NextSessionID()
	var throttled bool
	for i := 0; i < maxAttemptsInWindow+1; i++ {
		throttled = th.RecordFailure(sid)
	}
	if !throttled {
		t.Fatal("expected session to be throttled after exceeding the window limit")
	}
}

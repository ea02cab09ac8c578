package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/airwaves/channelcast/internal/model"
)

func TestStore_RoundTripChannelAndLineup(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "channelcast.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	ch := model.Channel{ID: "chan-1", Number: 7, Name: "Test Channel", StartTimeMs: 0, DurationMs: 210_000}
	if err := s.PutChannel(ctx, ch); err != nil {
		t.Fatal(err)
	}
	items := []model.LineupItem{
		{Type: model.LineupContent, ProgramKey: "A", DurationMs: 60_000},
		{Type: model.LineupContent, ProgramKey: "B", DurationMs: 150_000},
	}
	if err := s.PutLineup(ctx, ch.ID, items); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetChannelByNumber(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "chan-1" || got.Name != "Test Channel" {
		t.Fatalf("unexpected channel: %+v", got)
	}

	loaded, err := s.LoadLineup(ctx, ch.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[1].ProgramKey != "B" {
		t.Fatalf("unexpected lineup: %+v", loaded)
	}
}

func TestStore_UnknownChannelNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "channelcast.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_, err = s.GetChannelByNumber(context.Background(), 999)
	if err == nil {
		t.Fatal("expected ErrChannelNotFound")
	}
}

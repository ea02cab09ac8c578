package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airwaves/channelcast/internal/concat"
	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/playback"
	"github.com/airwaves/channelcast/internal/store"
	"github.com/airwaves/channelcast/internal/streamcontroller"
)

type fakeStore struct {
	channel model.Channel
	items   []model.LineupItem
}

func (f fakeStore) GetChannelByID(ctx context.Context, id string) (model.Channel, error) {
	if id != f.channel.ID {
		return model.Channel{}, store.ErrChannelNotFound
	}
	return f.channel, nil
}

func (f fakeStore) GetChannelByNumber(ctx context.Context, number int) (model.Channel, error) {
	if number != f.channel.Number {
		return model.Channel{}, store.ErrChannelNotFound
	}
	return f.channel, nil
}

func (f fakeStore) LoadLineup(ctx context.Context, channelID string) ([]model.LineupItem, error) {
	if channelID != f.channel.ID {
		return nil, store.ErrChannelNotFound
	}
	return f.items, nil
}

func (f fakeStore) LoadChannelAndLineup(ctx context.Context, channelID string) (model.Channel, []model.LineupItem, error) {
	ch, err := f.GetChannelByID(ctx, channelID)
	if err != nil {
		return model.Channel{}, nil, err
	}
	return ch, f.items, nil
}

func (f fakeStore) FFmpegSettings(ctx context.Context, channelID string) (encoderplan.Settings, error) {
	return encoderplan.Settings{}, nil
}

// TestHandleStream_UnknownChannelIs404EvenWithoutEncoder pins spec.md §4.9's
// step ordering: channel existence (step 2) must be checked before the
// encoder-executable check (step 3), so an unknown channel on a
// deployment with no configured encoder still reports 404, not 500.
func TestHandleStream_UnknownChannelIs404EvenWithoutEncoder(t *testing.T) {
	srv := &Server{
		Controller: &streamcontroller.Controller{
			Store: fakeStore{channel: model.Channel{ID: "a", Number: 1, DurationMs: 1000}},
			Cache: playback.New(),
			Throttler: concat.NewThrottler(),
			EncoderPath: "/no/such/ffmpeg-binary",
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/stream?channel=99", nil)
	w := httptest.NewRecorder()
	srv.handleStream().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404 for unknown channel, got %d: %s", w.Code, w.Body.String())
	}
}

// TestHandleStream_MissingEncoderIs500ForKnownChannel confirms the
// encoder-missing check still fires (as 500) once the channel is known.
func TestHandleStream_MissingEncoderIs500ForKnownChannel(t *testing.T) {
	srv := &Server{
		Controller: &streamcontroller.Controller{
			Store: fakeStore{channel: model.Channel{ID: "a", Number: 1, DurationMs: 1000}},
			Cache: playback.New(),
			Throttler: concat.NewThrottler(),
			EncoderPath: "/no/such/ffmpeg-binary",
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/stream?channel=1", nil)
	w := httptest.NewRecorder()
	srv.handleStream().ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500 for missing encoder, got %d: %s", w.Code, w.Body.String())
	}
}

// Package httpserver exposes StreamController over HTTP, per spec.md §6.
// Grounded on a prior Server.Run (net/http.ServeMux wiring, logRequests
// middleware, graceful shutdown on ctx.Done) and Gateway.ServeHTTP (query
// parsing, streaming response with a flush loop), generalized from "proxy
// an upstream provider URL" to "resolve a lineup item and pipe an
// encoder's stdout".
package httpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/airwaves/channelcast/internal/concat"
	"github.com/airwaves/channelcast/internal/encoder"
	"github.com/airwaves/channelcast/internal/httpmw"
	"github.com/airwaves/channelcast/internal/metrics"
	"github.com/airwaves/channelcast/internal/streamcontroller"
	"github.com/airwaves/channelcast/internal/streamerr"
)

// Server runs the HTTP surface described in spec.md §6: /setup, /video,
// /radio, /stream, /playlist, /m3u8, and the two media-player M3U routes.
type Server struct {
	Addr       string
	BaseURL    string
	Controller *streamcontroller.Controller
}

// Run blocks until ctx is cancelled or the HTTP server fails to start.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/setup", s.handleSetup())
	mux.Handle("/video", s.handleVideo())
	mux.Handle("/radio", s.handleRadio())
	mux.Handle("/stream", s.handleStream())
	mux.Handle("/playlist", httpmw.BrotliCompress(s.handlePlaylist()))
	mux.Handle("/m3u8", httpmw.BrotliCompress(s.handleM3U8()))
	mux.Handle("/media-player/radio/", s.handleMediaPlayerM3U(true))
	mux.Handle("/media-player/", s.handleMediaPlayerM3U(false))

	addr := s.Addr
	if addr == "" {
		addr = ":7734"
	}
	srv := &http.Server{Addr: addr, Handler: httpmw.WithH2C(logRequests(mux))}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("channelcast listening on %s (BaseURL %s)", addr, s.BaseURL)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Print("Shutting down channelcast ...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("channelcast shutdown: %v", err)
		}
		<-serverErr
		return nil
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("http: %s %s dur=%s remote=%s", r.Method, r.URL.RawQuery, time.Since(start).Round(time.Millisecond), r.RemoteAddr)
	})
}

func writeErr(w http.ResponseWriter, err error) {
	switch err.(type) {
	case *streamerr.BadRequest:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case *streamerr.NotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseChannelNumber(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("channel"))
	if raw == "" {
		return 0, &streamerr.BadRequest{Reason: "missing channel"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &streamerr.BadRequest{Reason: "invalid channel"}
	}
	return n, nil
}

// handleStream implements spec.md §4.9 and §6's /stream row: resolve one
// lineup item, spawn its encoder, and pipe stdout to the response body.
func (s *Server) handleStream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		channelNumber, err := parseChannelNumber(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		q := r.URL.Query()
		first := q.Get("first") != "0"
		isFirstJoin := q.Get("first") == "" || q.Get("first") == "1"
		sessionID := int64(0)
		if raw := q.Get("session"); raw != "" {
			sessionID, _ = strconv.ParseInt(raw, 10, 64)
		} else {
			sessionID = concat.NextSessionID()
		}

		if _, err := s.Controller.Store.GetChannelByNumber(ctx, channelNumber); err != nil {
			writeErr(w, &streamerr.NotFound{Channel: strconv.Itoa(channelNumber)})
			return
		}
		if !streamcontroller.EncoderExists(s.Controller.EncoderPath) {
			writeErr(w, &streamerr.EncoderMissing{Path: s.Controller.EncoderPath})
			return
		}

		result, err := s.Controller.Resolve(ctx, channelNumber, sessionID, first, isFirstJoin, nowMs(s.Controller), 0)
		if err != nil {
			if _, ok := err.(*streamerr.NotFound); ok {
				writeErr(w, err)
				return
			}
			if s.Controller.Throttler.RecordFailure(sessionID) {
				log.Printf("stream: session=%d channel=%d too many resolve attempts, abandoning", sessionID, channelNumber)
				http.Error(w, "too many attempts", http.StatusInternalServerError)
				return
			}
			writeErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "video/mp2t")
		w.WriteHeader(http.StatusOK)
		if !result.Spawn {
			return
		}

		proc, stdout, err := encoder.Spawn(ctx, s.Controller.EncoderPath, result.Plan.Args)
		if err != nil {
			log.Printf("stream: session=%d channel=%d spawn failed: %v", sessionID, channelNumber, err)
			return
		}
		metrics.ActiveStreams.Inc()
		defer metrics.ActiveStreams.Dec()
		defer func(start time.Time) {
			metrics.StreamDurationSeconds.Observe(time.Since(start).Seconds())
		}(time.Now())

		copyDone := make(chan struct{})
		go func() {
			defer close(copyDone)
			_, _ = io.Copy(flushWriter{w}, stdout)
		}()

		select {
		case <-copyDone:
		case <-ctx.Done():
			proc.Kill()
			<-copyDone
		}

		state := proc.Wait()
		metrics.EncoderExits.WithLabelValues(state.String()).Inc()
		if state == encoder.Errored {
			log.Printf("stream: session=%d channel=%d encoder errored: %s", sessionID, channelNumber, proc.Stderr())
			s.Controller.Throttler.RecordFailure(sessionID)
		} else {
			s.Controller.Throttler.Forget(sessionID)
		}
	})
}

// handlePlaylist implements the /playlist row: an ffconcat manifest with
// two entries both pointing back to /stream, per spec.md §4.8.
func (s *Server) handlePlaylist() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channelNumber, err := parseChannelNumber(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		sessionID := concat.NextSessionID()
		streamURL := fmt.Sprintf("%s/stream?channel=%d&session=%d", s.BaseURL, channelNumber, sessionID)
		if r.URL.Query().Get("audioOnly") == "1" {
			streamURL += "&audioOnly=1"
		}
		if r.URL.Query().Get("hls") == "1" {
			streamURL += "&hls=1"
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, concat.Manifest(streamURL))
	})
}

// handleM3U8 implements the /m3u8 row: a playlist pointing at /playlist's
// concat-backed /stream, for clients that expect an HLS-style URL.
func (s *Server) handleM3U8() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channelNumber, err := parseChannelNumber(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/x-mpegURL")
		fmt.Fprintf(w, "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=4000000\n%s/stream?channel=%d&hls=1\n", s.BaseURL, channelNumber)
	})
}

// handleVideo implements the /video row: a redirect onto /playlist, the
// concat-driven "infinite stream" entry point clients actually tune to.
func (s *Server) handleVideo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channelNumber, err := parseChannelNumber(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("%s/playlist?channel=%d", s.BaseURL, channelNumber), http.StatusFound)
	})
}

// handleRadio is /video's audio-only sibling.
func (s *Server) handleRadio() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channelNumber, err := parseChannelNumber(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("%s/playlist?channel=%d&audioOnly=1", s.BaseURL, channelNumber), http.StatusFound)
	})
}

// handleSetup serves a static "no channels configured" encoded stream for
// deployments with an empty lineup, so a tuner client's initial probe
// against /setup still gets a valid video/mp2t body instead of a 404.
func (s *Server) handleSetup() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp2t")
		w.WriteHeader(http.StatusOK)
		proc, stdout, err := encoder.Spawn(r.Context(), s.Controller.EncoderPath, setupArgs(s.Controller.EncoderPath))
		if err != nil {
			return
		}
		_, _ = io.Copy(flushWriter{w}, stdout)
		proc.Wait()
	})
}

func setupArgs(encoderPath string) []string {
	return []string{
		"-f", "lavfi", "-i", "color=c=black:s=1280x720:r=30",
		"-f", "lavfi", "-i", "anullsrc=r=48000:cl=stereo",
		"-t", "5",
		"-vf", "drawtext=text='no channels configured':fontcolor=white:fontsize=36:x=(w-text_w)/2:y=(h-text_h)/2",
		"-c:v", "libx264", "-c:a", "aac",
		"-f", "mpegts", "pipe:1",
	}
}

// handleMediaPlayerM3U implements /media-player/:number.m3u and
// /media-player/radio/:number.m3u: a one-line M3U pointing at /video (or
// /m3u8 when fast=1) or /radio.
func (s *Server) handleMediaPlayerM3U(radio bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/media-player/")
		path = strings.TrimPrefix(path, "radio/")
		path = strings.TrimSuffix(path, ".m3u")
		number, err := strconv.Atoi(path)
		if err != nil {
			writeErr(w, &streamerr.BadRequest{Reason: "invalid channel number"})
			return
		}

		w.Header().Set("Content-Type", "video/x-mpegurl")
		var target string
		switch {
		case radio:
			target = fmt.Sprintf("%s/radio?channel=%d", s.BaseURL, number)
		case r.URL.Query().Get("fast") == "1":
			target = fmt.Sprintf("%s/m3u8?channel=%d", s.BaseURL, number)
		default:
			target = fmt.Sprintf("%s/video?channel=%d", s.BaseURL, number)
		}
		fmt.Fprintf(w, "#EXTM3U\n%s\n", target)
	})
}

// flushWriter flushes after every write so encoder stdout reaches the
// client as it arrives instead of waiting on net/http's buffering.
type flushWriter struct{ w http.ResponseWriter }

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if flusher, ok := f.w.(http.Flusher); ok {
		flusher.Flush()
	}
	return n, err
}

func nowMs(c *streamcontroller.Controller) int64 {
	if c.Clock != nil {
		return c.Clock.NowMs()
	}
	return time.Now().UnixMilli()
}

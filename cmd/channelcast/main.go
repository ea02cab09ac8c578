// Command channelcast runs the Channel Streaming Core: it loads channels,
// lineups, and filler collections from a sqlite-backed Store and serves
// the HTTP surface (/video, /radio, /stream, /playlist, /m3u8,
// /media-player/*.m3u) that resolves each request against the current
// wall clock and streams an ffmpeg-compatible encoder's output back to
// the client.
package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/airwaves/channelcast/internal/clock"
	"github.com/airwaves/channelcast/internal/concat"
	"github.com/airwaves/channelcast/internal/config"
	"github.com/airwaves/channelcast/internal/httpserver"
	"github.com/airwaves/channelcast/internal/materializer"
	"github.com/airwaves/channelcast/internal/mediaresolver"
	"github.com/airwaves/channelcast/internal/mediaresolver/local"
	mediavodfs "github.com/airwaves/channelcast/internal/mediaresolver/vodfs"
	"github.com/airwaves/channelcast/internal/metrics"
	"github.com/airwaves/channelcast/internal/playback"
	"github.com/airwaves/channelcast/internal/store/sqlite"
	"github.com/airwaves/channelcast/internal/streamcontroller"
	"github.com/airwaves/channelcast/internal/vodfs"
)

func main() {
	cfg := config.Load()

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	mediaResolver := resolverFor(cfg)

	controller := &streamcontroller.Controller{
		Store:       st,
		Resolver:    mediaResolver,
		Cache:       playback.New(),
		Throttler:   concat.NewThrottler(),
		Clock:       clock.Real{},
		EncoderPath: cfg.EncoderPath,
		Rand:        rand.New(rand.NewSource(seedFromPID())),
	}

	if cfg.MetricsEnabled {
		go serveMetrics()
	}

	srv := &httpserver.Server{
		Addr:       cfg.Addr,
		BaseURL:    cfg.BaseURL,
		Controller: controller,
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Print("received shutdown signal")
		cancel()
	}()

	if cfg.MountPoint != "" {
		unmount, err := mountVODFS(ctx, cfg, st)
		if err != nil {
			log.Fatalf("mount vodfs: %v", err)
		}
		defer unmount()
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("http server: %v", err)
	}
}

// resolverFor wires mediaresolver/vodfs instead of the plain local resolver
// when a VODFS mount point is configured.
func resolverFor(cfg *config.Config) mediaresolver.Resolver {
	if cfg.MountPoint != "" {
		return mediavodfs.New(cfg.MountPoint)
	}
	return local.New()
}

// mountVODFS loads every known Program from Store and mounts them under
// cfg.MountPoint as a Plex-naming-convention Movies/TV tree, so a
// deployer can browse the same content the channel lineups reference.
func mountVODFS(ctx context.Context, cfg *config.Config, st *sqlite.Store) (unmount func(), err error) {
	programs, err := st.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	mat := &materializer.DirectFile{CacheDir: cfg.DBPath + ".vodcache"}
	return vodfs.MountProgramsBackground(ctx, cfg.MountPoint, programs, mat, false)
}

func serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	log.Printf("metrics listening on :9101/metrics")
	if err := http.ListenAndServe(":9101", mux); err != nil {
		log.Printf("metrics server: %v", err)
	}
}

func seedFromPID() int64 {
	return int64(os.Getpid())
}

package materializer

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/airwaves/channelcast/internal/cache"
	"github.com/airwaves/channelcast/internal/httpclient"
	"github.com/airwaves/channelcast/internal/probe"
)

// Cache materializes both direct-MP4 and HLS URLs to the cache (DirectFile + HLS via ffmpeg).
// Use this when mounting with a cache dir so VOD is downloaded on demand.
type Cache struct {
	CacheDir string
	Client   *http.Client
	group    inflightGroup
}

func (c *Cache) Materialize(ctx context.Context, assetID string, streamURL string) (string, error) {
	if streamURL == "" {
		return "", ErrNotReady{AssetID: assetID}
	}
	client := c.Client
	if client == nil {
		client = httpclient.Default()
	}
	finalPath := cache.Path(c.CacheDir, assetID)
	if fi, err := os.Stat(finalPath); err == nil && fi.Size() > 0 {
		return finalPath, nil
	}

	typ, err := probe.Probe(streamURL, client)
	if err != nil {
		log.Printf("materializer: probe failed asset=%s url=%q err=%v", assetID, streamURL, err)
		return "", err
	}
	log.Printf("materializer: probe asset=%s url=%q type=%s", assetID, streamURL, typ)

	partialPath := cache.PartialPath(c.CacheDir, assetID)
	done, owner := c.group.join(assetID)
	if !owner {
		if err := awaitDone(ctx, done); err != nil {
			return "", err
		}
		if fi, err := os.Stat(finalPath); err == nil && fi.Size() > 0 {
			return finalPath, nil
		}
		if lastErr := c.group.errFor(assetID); lastErr != nil {
			return "", lastErr
		}
		return "", ErrNotReady{AssetID: assetID}
	}

	var matErr error
	defer func() { c.group.finish(assetID, matErr, done) }()

	// Ensure cache dir exists before writing (DownloadToFile does it; materializeHLS does not).
	if err := os.MkdirAll(filepath.Dir(partialPath), 0755); err != nil {
		matErr = err
		return "", err
	}

	switch typ {
	case probe.StreamDirectMP4, probe.StreamDirectFile:
		log.Printf("materializer: download direct asset=%s dest=%q", assetID, partialPath)
		matErr = DownloadToFile(ctx, streamURL, partialPath, client)
	case probe.StreamHLS:
		log.Printf("materializer: download hls asset=%s dest=%q", assetID, partialPath)
		matErr = materializeHLS(ctx, streamURL, partialPath)
	default:
		log.Printf("materializer: unsupported type asset=%s type=%q", assetID, typ)
		matErr = ErrNotReady{AssetID: assetID}
		return "", matErr
	}
	if matErr != nil {
		log.Printf("materializer: materialize failed asset=%s err=%v", assetID, matErr)
		os.Remove(partialPath)
		return "", matErr
	}

	if err := os.Rename(partialPath, finalPath); err != nil {
		matErr = err
		log.Printf("materializer: rename failed asset=%s from=%q to=%q err=%v", assetID, partialPath, finalPath, err)
		os.Remove(partialPath)
		return "", err
	}
	log.Printf("materializer: materialize ok asset=%s final=%q", assetID, finalPath)
	return finalPath, nil
}

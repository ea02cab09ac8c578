package materializer

import (
	"context"
	"net/http"
	"os"

	"github.com/airwaves/channelcast/internal/cache"
	"github.com/airwaves/channelcast/internal/probe"
)

// DirectFile materializes direct-file (MP4) URLs to the cache. HLS/TS return ErrNotReady.
type DirectFile struct {
	CacheDir string
	Client   *http.Client
	group    inflightGroup
}

func (d *DirectFile) Materialize(ctx context.Context, assetID string, streamURL string) (string, error) {
	if streamURL == "" {
		return "", ErrNotReady{AssetID: assetID}
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	finalPath := cache.Path(d.CacheDir, assetID)
	if fi, err := os.Stat(finalPath); err == nil && fi.Size() > 0 {
		return finalPath, nil
	}

	typ, err := probe.Probe(streamURL, client)
	if err != nil {
		return "", err
	}
	if typ != probe.StreamDirectMP4 {
		return "", ErrNotReady{AssetID: assetID}
	}

	partialPath := cache.PartialPath(d.CacheDir, assetID)
	done, owner := d.group.join(assetID)
	if !owner {
		if err := awaitDone(ctx, done); err != nil {
			return "", err
		}
		if fi, err := os.Stat(finalPath); err == nil && fi.Size() > 0 {
			return finalPath, nil
		}
		if lastErr := d.group.errFor(assetID); lastErr != nil {
			return "", lastErr
		}
		return "", ErrNotReady{AssetID: assetID}
	}

	var matErr error
	defer func() { d.group.finish(assetID, matErr, done) }()

	if err := DownloadToFile(ctx, streamURL, partialPath, client); err != nil {
		matErr = err
		os.Remove(partialPath)
		return "", err
	}
	if err := os.Rename(partialPath, finalPath); err != nil {
		matErr = err
		os.Remove(partialPath)
		return "", err
	}
	return finalPath, nil
}

package materializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
)

func TestDirectFile_Materialize_DownloadsAndCaches(t *testing.T) {
	body := []byte("fake mp4 bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", "14")
			w.Header().Set("Content-Type", "video/mp4")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Write(body)
	}))
	defer srv.Close()

	d := &DirectFile{CacheDir: t.TempDir()}
	path, err := d.Materialize(context.Background(), "asset-1", srv.URL+"/movie.mp4")
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(body) {
		t.Fatalf("downloaded content = %q, want %q", got, body)
	}

	// Second call should hit the cache, not re-download.
	path2, err := d.Materialize(context.Background(), "asset-1", srv.URL+"/movie.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if path2 != path {
		t.Fatalf("cached path = %q, want %q", path2, path)
	}
}

func TestDirectFile_Materialize_EmptyURL(t *testing.T) {
	d := &DirectFile{CacheDir: t.TempDir()}
	if _, err := d.Materialize(context.Background(), "a", ""); err == nil {
		t.Fatal("expected ErrNotReady for empty streamURL")
	}
}

func TestInflightGroup_CoalescesConcurrentCallers(t *testing.T) {
	var g inflightGroup
	done, owner := g.join("asset-1")
	if !owner {
		t.Fatal("first joiner should be owner")
	}

	var wg sync.WaitGroup
	results := make([]error, 5)
	// Every joiner registers before finish; only the waits run concurrently.
	for i := range results {
		wait, owner := g.join("asset-1")
		if owner {
			t.Fatalf("joiner %d unexpectedly became owner", i)
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = awaitDone(context.Background(), wait)
		}(i)
	}

	g.finish("asset-1", nil, done)
	wg.Wait()
	for i, err := range results {
		if err != nil {
			t.Errorf("joiner %d: %v", i, err)
		}
	}

	// Once finished, the slot is free for a new owner.
	if _, owner := g.join("asset-1"); !owner {
		t.Fatal("expected a fresh owner after finish")
	}
}

func TestInflightGroup_RecordsErrorForWaiters(t *testing.T) {
	var g inflightGroup
	done, _ := g.join("asset-2")
	wantErr := os.ErrNotExist
	g.finish("asset-2", wantErr, done)
	if got := g.errFor("asset-2"); got != wantErr {
		t.Fatalf("errFor = %v, want %v", got, wantErr)
	}
}

func TestCache_Materialize_UnsupportedProbeTypeIsNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Neither a direct file extension nor an HLS manifest content-type:
		// probe.Probe should classify this as unsupported.
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Cache{CacheDir: t.TempDir()}
	_, err := c.Materialize(context.Background(), "asset-3", srv.URL+"/unknown")
	if err == nil {
		t.Fatal("expected an error for an unsupported stream type")
	}
}

func TestCache_Materialize_EmptyURL(t *testing.T) {
	c := &Cache{CacheDir: t.TempDir()}
	if _, err := c.Materialize(context.Background(), "a", ""); err == nil {
		t.Fatal("expected ErrNotReady for empty streamURL")
	}
}

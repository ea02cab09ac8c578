// Package httpmw holds small HTTP middleware shared by the stream server:
// brotli response compression for the repeatedly-fetched text endpoints
// (/playlist, /m3u8), and h2c support so the streaming server can speak
// HTTP/2 to clients that never negotiate TLS (set-top boxes, Plex DVR).
package httpmw

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// brotliResponseWriter wraps an http.ResponseWriter, compressing the body
// with brotli and stripping Content-Length (the compressed size isn't known
// up front), matching a habit of wrapping ResponseWriter elsewhere for
// transparent stream-shaping.
type brotliResponseWriter struct {
	http.ResponseWriter
	bw *brotli.Writer
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

func (w *brotliResponseWriter) WriteHeader(status int) {
	w.Header().Del("Content-Length")
	w.Header().Set("Content-Encoding", "br")
	w.ResponseWriter.WriteHeader(status)
}

func (w *brotliResponseWriter) Flush() {
	w.bw.Flush()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// BrotliCompress wraps next, compressing responses with brotli whenever the
// client advertises "br" in Accept-Encoding. Intended for the core's
// manifest/playlist/guide text endpoints, not for /stream's binary
// video/mp2t body.
func BrotliCompress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "br") {
			next.ServeHTTP(w, r)
			return
		}
		bw := brotli.NewWriterLevel(w, brotli.DefaultCompression)
		defer closeWriter(bw)
		next.ServeHTTP(&brotliResponseWriter{ResponseWriter: w, bw: bw}, r)
	})
}

func closeWriter(c io.Closer) { _ = c.Close() }

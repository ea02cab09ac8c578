package httpmw

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// WithH2C wraps an *http.Server's handler so it also accepts prior-knowledge
// HTTP/2 over plaintext, which several HDHomeRun-emulation clients (and
// Plex's own tuner prober) use against non-TLS tuner endpoints.
func WithH2C(h http.Handler) http.Handler {
	h2s := &http2.Server{}
	return h2c.NewHandler(h, h2s)
}

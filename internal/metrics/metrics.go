// Package metrics exposes the Channel Streaming Core's Prometheus
// instrumentation, wired into the encoder lifecycle, filler selection, and
// redirect walking so the properties tested in internal/encoder and
// internal/filler are also observable in production.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EncoderExits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "channelcast",
		Subsystem: "encoder",
		Name:      "exits_total",
		Help:      "Encoder process exits by terminal lifecycle state.",
	}, []string{"state"})

	FillerPicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "channelcast",
		Subsystem: "filler",
		Name:      "picks_total",
		Help:      "Filler selections, split by whether a clip was found.",
	}, []string{"result"})

	RedirectHops = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "channelcast",
		Subsystem: "redirect",
		Name:      "hops",
		Help:      "Length of the channel path reported by a detected redirect cycle.",
		Buckets:   prometheus.LinearBuckets(0, 1, 8),
	})

	StreamDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "channelcast",
		Subsystem: "stream",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of a single /stream response.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	ActiveStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "channelcast",
		Subsystem: "stream",
		Name:      "active",
		Help:      "Number of /stream responses currently being served.",
	})
)

// Registry is the process-wide collector registry. main() registers it
// with the HTTP mux at /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(EncoderExits, FillerPicks, RedirectHops, StreamDurationSeconds, ActiveStreams)
}

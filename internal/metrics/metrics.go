// Package metrics holds the Prometheus collectors for backend dispatches.
//
// Collectors live in a package-level Registry rather than the global default
// one; the HTTP server exposes it on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch stages.
const (
	StageGenerate  = "generate"
	StageTranslate = "translate"
)

var (
	Registry = prometheus.NewRegistry()

	dispatchTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veoprompt_dispatch_total",
			Help: "Total number of backend dispatches, partitioned by backend, stage and status.",
		},
		[]string{"backend", "stage", "status"},
	)
	dispatchDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "veoprompt_dispatch_duration_seconds",
			Help:    "Duration of backend dispatches.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "stage"},
	)
	dialogueProtected = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veoprompt_dialogue_protected_total",
			Help: "Dialogue protection outcomes: wrapped, missing (not found in the paragraph), altered (not verbatim in the translation).",
		},
		[]string{"result"},
	)
	cacheLookups = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veoprompt_translation_cache_total",
			Help: "Translation memory lookups by result (hit or miss).",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveDispatch records one backend call.
func ObserveDispatch(backend, stage string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	dispatchTotal.With(prometheus.Labels{"backend": backend, "stage": stage, "status": status}).Inc()
	dispatchDuration.With(prometheus.Labels{"backend": backend, "stage": stage}).Observe(d.Seconds())
}

// DialogueProtected records a dialogue protection outcome.
func DialogueProtected(result string) {
	dialogueProtected.WithLabelValues(result).Inc()
}

// CacheLookup records a translation memory lookup.
func CacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

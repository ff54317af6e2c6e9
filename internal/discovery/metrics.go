package discovery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_feed_requests_total",
			Help: "Total feed requests by feed type",
		},
		[]string{"feed"},
	)

	feedLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_feed_latency_seconds",
			Help:    "End-to-end feed build time",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_compatibility_scores",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	scoringFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_scoring_failures_total",
			Help: "Per-candidate scoring reads that failed and were absorbed",
		},
		[]string{"factor"},
	)

	exclusionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_exclusion_cache_total",
			Help: "Exclusion set cache lookups",
		},
		[]string{"result"},
	)
)

func RecordFeedRequest(feed string) {
	feedRequestsTotal.WithLabelValues(feed).Inc()
}

func RecordFeedLatency(feed string, d time.Duration) {
	feedLatency.WithLabelValues(feed).Observe(d.Seconds())
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordScoringFailure(factor string) {
	scoringFailuresTotal.WithLabelValues(factor).Inc()
}

func RecordExclusionCache(hit bool) {
	if hit {
		exclusionCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	exclusionCacheTotal.WithLabelValues("miss").Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glosario", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glosario", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// RepositoryOps counts Word Repository calls by operation (load|save|clear) and result (ok|error).
	RepositoryOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glosario", Name: "repository_operations_total", Help: "Word repository operations by result."},
		[]string{"op", "result"},
	)
	WordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "glosario", Name: "words_created_total", Help: "Words created implicitly by a first sign."},
	)
	SearchTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glosario", Name: "search_tokens_total", Help: "Matched search tokens by outcome (found|missing)."},
		[]string{"outcome"},
	)
	SnapshotCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glosario", Name: "snapshot_cache_total", Help: "Snapshot cache lookups by result (hit|miss|error)."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(RepositoryOps)
	reg.MustRegister(WordsCreated)
	reg.MustRegister(SearchTokens)
	reg.MustRegister(SnapshotCache)
}

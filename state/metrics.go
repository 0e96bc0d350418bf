package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricUpserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "state_cache_upserts_total",
		Help: "Entity upserts by kind and whether the id was new.",
	}, []string{"kind", "new"})

	metricFakes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "state_cache_fakes_total",
		Help: "Placeholder entities created by kind.",
	}, []string{"kind"})

	metricPromotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "state_cache_promotions_total",
		Help: "Placeholder entities promoted to canonical by kind.",
	}, []string{"kind"})

	metricDeferrals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "state_cache_deferrals_total",
		Help: "Processing closures parked for a not-yet-created entity.",
	})

	metricReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "state_cache_replays_total",
		Help: "Deferred closures replayed after their entity was created.",
	})

	metricDecodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "state_cache_decode_failures_total",
		Help: "Records rejected by a value decoder.",
	}, []string{"record"})
)

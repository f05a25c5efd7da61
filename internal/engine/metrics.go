package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty_cart"
	outcomeError = "error"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_calculations_total",
			Help: "Total number of cart pricing calculations",
		},
		[]string{"outcome"},
	)

	calculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_calculation_duration_seconds",
			Help:    "Cart pricing calculation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	allocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_discount_allocations_total",
			Help: "Total number of discount allocations produced, by discount type",
		},
		[]string{"type"},
	)

	negativeTotalClamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_negative_total_clamped_total",
			Help: "Times a computed cart total was negative and floored at zero",
		},
	)
)

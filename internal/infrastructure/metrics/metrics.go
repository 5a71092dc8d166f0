package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business-level counters. HTTP-level metrics live in the middleware package.
var (
	EntriesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payouts_entries_created_total",
			Help: "Total number of ledger entries created",
		},
		[]string{"kind"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payouts_status_transitions_total",
			Help: "Total number of applied status transitions",
		},
		[]string{"kind", "status"},
	)

	HistoryRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payouts_history_records_total",
			Help: "Total number of history records appended",
		},
	)

	RateRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payouts_rate_requests_total",
			Help: "Total number of exchange rate requests served",
		},
	)
)

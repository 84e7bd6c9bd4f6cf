// Package metrics holds the prometheus collectors of the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListQueries counts listing queries by resource kind and mode.
	ListQueries = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "mediatek",
			Name:      "list_queries_total",
			Help:      "Number of listing queries, by resource kind and resolved mode.",
		},
		[]string{"kind", "mode"},
	)

	// RejectedListQueries counts listings refused for an unknown field or value.
	RejectedListQueries = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "mediatek",
			Name:      "list_queries_rejected_total",
			Help:      "Number of listing queries rejected before reaching the database.",
		},
		[]string{"kind"},
	)

	// AdminWrites counts successful back-office writes.
	AdminWrites = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "mediatek",
			Name:      "admin_writes_total",
			Help:      "Number of back-office writes, by resource kind and action.",
		},
		[]string{"kind", "action"},
	)

	// LoginAttempts counts login attempts by outcome.
	LoginAttempts = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "mediatek",
			Name:      "login_attempts_total",
			Help:      "Number of login attempts, by outcome.",
		},
		[]string{"outcome"},
	)
)

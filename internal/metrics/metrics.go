// Package metrics defines the Prometheus instrumentation for the ledger
// service and exposes the /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GamesCreated counts games created over the process lifetime.
	GamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokernight_games_created_total",
		Help: "Number of games created.",
	})

	// GamesCompleted counts games transitioned to completed status.
	GamesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokernight_games_completed_total",
		Help: "Number of games completed.",
	})

	// TransactionsRecorded counts buy-ins and cash-outs by kind.
	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokernight_transactions_recorded_total",
		Help: "Number of ledger transactions recorded, by kind.",
	}, []string{"kind"})

	// SettlementsPerGame observes how many transfers the optimizer emits
	// each time a summary is generated.
	SettlementsPerGame = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokernight_settlements_per_game",
		Help:    "Number of settlements produced per game summary.",
		Buckets: prometheus.LinearBuckets(0, 1, 10),
	})
)

// Handler returns the HTTP handler serving the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

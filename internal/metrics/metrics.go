// Package metrics exposes Prometheus collectors for the sync core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive counts currently registered websocket clients.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "whiteboard_connections_active",
		Help: "Number of connected whiteboard clients.",
	})

	// RoomsActive counts rooms with at least one member.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "whiteboard_rooms_active",
		Help: "Number of non-empty rooms.",
	})

	// EventsRelayed counts operations fanned out to room members, by type.
	EventsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whiteboard_events_relayed_total",
		Help: "Total drawing, shape and clear operations relayed.",
	}, []string{"type"})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

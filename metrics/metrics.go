package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickdoodle_active_rooms",
		Help: "Rooms currently resident in memory.",
	})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quickdoodle_socket_events_total",
		Help: "Inbound socket events by name.",
	}, []string{"event"})

	PersistWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quickdoodle_persist_writes_total",
		Help: "Room snapshots written to the durable store.",
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quickdoodle_persist_failures_total",
		Help: "Room snapshot writes that failed. The in-memory room stays authoritative.",
	})
)

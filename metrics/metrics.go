package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors for the conversation relay, registered on the default
// Prometheus registry.
var (
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "marketplace_ws_connections",
		Help: "Number of live websocket connections.",
	})

	RoomJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_ws_room_joins_total",
		Help: "Total count of conversation room joins.",
	})

	EventsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_ws_events_relayed_total",
		Help: "Total count of events delivered to room members.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_ws_events_dropped_total",
		Help: "Total count of events dropped because a client's send buffer was full.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Package metrics holds the Prometheus collectors of the shop. A nil
// *Metrics is valid and records nothing, so services can run without it.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	cartOps      *prometheus.CounterVec
	cartCache    *prometheus.CounterVec
	authFailures *prometheus.CounterVec
	ordersPlaced prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		cartCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "cart",
			Name:      "view_cache_total",
			Help:      "Cart view cache lookups by result.",
		}, []string{"result"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Rejected authentications by reason.",
		}, []string{"reason"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "order",
			Name:      "placed_total",
			Help:      "Orders placed.",
		}),
	}
	reg.MustRegister(m.cartOps, m.cartCache, m.authFailures, m.ordersPlaced)
	return m
}

func (m *Metrics) CartOp(op string) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op).Inc()
}

// CacheResult records "hit", "miss" or "error".
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.cartCache.WithLabelValues(result).Inc()
}

func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// Handler exposes g in the Prometheus text format as a fiber route.
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

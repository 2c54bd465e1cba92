package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CartOp("add")
	m.CartOp("add")
	m.CacheResult("hit")
	m.AuthFailure("locked")
	m.OrderPlaced()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartOps.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("locked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartOp("add")
		m.CacheResult("miss")
		m.AuthFailure("bad_credentials")
		m.OrderPlaced()
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).CartOp("clear")

	app := fiber.New()
	app.Get("/metrics", Handler(reg))

	res, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	assert.True(t, strings.Contains(string(b), `shop_cart_operations_total{op="clear"} 1`), string(b))
}

// Package metrics exposes Prometheus collectors for sales activity and
// HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	SalesRecorded  prometheus.Counter
	SaleAmount     prometheus.Counter
	SaleItems      prometheus.Counter
	Purchases      prometheus.Counter
	LowStockAlerts prometheus.Counter
	RequestLatency *prometheus.HistogramVec
}

// New registers every collector on a private registry together with the
// Go runtime and process collectors
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SalesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Number of committed sales.",
		}),
		SaleAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_amount_cents_total",
			Help:      "Sum of committed sale totals in cents.",
		}),
		SaleItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_items_total",
			Help:      "Units sold across all sales.",
		}),
		Purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_recorded_total",
			Help:      "Number of recorded supplier purchases.",
		}),
		LowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_stock_alerts_total",
			Help:      "Products that fell under the low stock threshold after a sale.",
		}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.SalesRecorded,
		m.SaleAmount,
		m.SaleItems,
		m.Purchases,
		m.LowStockAlerts,
		m.RequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSale is a no-op on a nil receiver so services can run without metrics
func (m *Metrics) ObserveSale(total int64, units int) {
	if m == nil {
		return
	}
	m.SalesRecorded.Inc()
	m.SaleAmount.Add(float64(total))
	m.SaleItems.Add(float64(units))
}

func (m *Metrics) ObservePurchase() {
	if m == nil {
		return
	}
	m.Purchases.Inc()
}

func (m *Metrics) ObserveLowStock(n int) {
	if m == nil || n == 0 {
		return
	}
	m.LowStockAlerts.Add(float64(n))
}

// Middleware records request latency labelled by the matched route
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.RequestLatency.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

package gateway

import (
	"strconv"
	"time"

	"github.com/adonese/hrportal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumentation records request count, latency and response size per
// route pattern. Collectors are registered on reg, so tests can pass a fresh
// prometheus.NewRegistry().
func Instrumentation(reg prometheus.Registerer) fiber.Handler {
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrportal",
		Subsystem: "request",
		Name:      "requests_count",
		Help:      "Number of requests per each endpoint",
	}, []string{"code", "method", "route"})

	resTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hrportal",
		Subsystem: "response",
		Name:      "duration_seconds",
		Help:      "hrportal response duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	resSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hrportal",
		Subsystem: "response",
		Name:      "size_bytes",
		Help:      "hrportal response size",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	})

	reg.MustRegister(counterVec, resTime, resSize)

	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = apperr.Status(err)
			}
		}

		counterVec.WithLabelValues(strconv.Itoa(status), c.Method(), route).Inc()
		resTime.WithLabelValues(route).Observe(time.Since(start).Seconds())
		resSize.Observe(float64(len(c.Response().Body())))
		return err
	}
}

package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the backend's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cuisineo",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuisineo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cuisineo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuisineo",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Identity gateway operations by outcome.",
		},
		[]string{"action", "result"},
	)

	recipeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuisineo",
			Subsystem: "recipes",
			Name:      "operations_total",
			Help:      "Document store operations by outcome.",
		},
		[]string{"op", "result"},
	)

	importedRecipes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cuisineo",
			Subsystem: "recipes",
			Name:      "batch_imported_total",
			Help:      "Recipes written through atomic batch inserts.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authEvents,
		recipeOps,
		importedRecipes,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware records request count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Method())
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordAuth counts one identity gateway operation.
func RecordAuth(action string, err error) {
	authEvents.WithLabelValues(action, result(err)).Inc()
}

// RecordRecipeOp counts one document store operation.
func RecordRecipeOp(op string, err error) {
	recipeOps.WithLabelValues(op, result(err)).Inc()
}

// RecordBatchImport counts recipes written by a successful batch insert.
func RecordBatchImport(n int) {
	if n > 0 {
		importedRecipes.Add(float64(n))
	}
}

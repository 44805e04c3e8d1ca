package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	ContentMutations *prometheus.CounterVec
	Uploads          *prometheus.CounterVec
	OrphansReaped    prometheus.Counter
	HTTPDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ContentMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biolab_content_mutations_total",
			Help: "Content create/update/delete attempts.",
		}, []string{"kind", "action", "result"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biolab_uploads_total",
			Help: "Attachment uploads to object storage.",
		}, []string{"kind", "result"}),
		OrphansReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biolab_orphans_reaped_total",
			Help: "Storage objects removed by the orphan reaper.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biolab_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.Registry.MustRegister(
		m.ContentMutations, m.Uploads, m.OrphansReaped, m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Nil-safe recorders; a nil *Metrics disables collection.

func (m *Metrics) Mutation(kind, action string, err error) {
	if m == nil {
		return
	}
	m.ContentMutations.WithLabelValues(kind, action, result(err)).Inc()
}

func (m *Metrics) Upload(kind string, err error) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(kind, result(err)).Inc()
}

func (m *Metrics) Reaped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OrphansReaped.Add(float64(n))
}

// Middleware observes latency by route pattern, not raw path.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		m.HTTPDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry at /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Package telemetry exposes polling-loop health as Prometheus metrics.
//
// Metrics satisfies scheduler.Observer and api.RequestObserver, so wiring it
// in is a matter of passing it to both constructors. Collectors live on a
// private registry; nothing is exported unless metrics.addr is configured.
package telemetry

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/liquidmon/lmon/internal/errors"
	"github.com/liquidmon/lmon/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lmon"

// Cycle results used as the "result" label.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultAuth  = "auth"
)

// Metrics holds every collector lmon exports.
type Metrics struct {
	registry *prometheus.Registry

	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	lastSuccess   *prometheus.GaugeVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	notifications *prometheus.CounterVec
	entities      *prometheus.GaugeVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		cycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_cycles_total",
				Help:      "Polling loop cycles by loop and result",
			},
			[]string{"loop", "result"},
		),
		cycleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "loop_cycle_duration_seconds",
				Help:      "Time from cycle start until it settled",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"loop"},
		),
		lastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loop_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful cycle",
			},
			[]string{"loop"},
		),

		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Requests to the monitoring API by endpoint and status code",
			},
			[]string{"endpoint", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Monitoring API request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),

		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Threshold notifications emitted after cooldown gating",
			},
			[]string{"metric", "level"},
		),
		entities: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "entities",
				Help:      "Entities in the last poll by state",
			},
			[]string{"state"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CycleDone records a settled loop cycle.
func (m *Metrics) CycleDone(loop string, err error, elapsed time.Duration) {
	result := ResultOK
	switch {
	case errors.IsAuth(err):
		result = ResultAuth
	case err != nil:
		result = ResultError
	}

	m.cycles.WithLabelValues(loop, result).Inc()
	m.cycleDuration.WithLabelValues(loop).Observe(elapsed.Seconds())
	if err == nil {
		m.lastSuccess.WithLabelValues(loop).SetToCurrentTime()
	}
}

// ObserveRequest records one API round trip. A zero status means the request
// never got a response.
func (m *Metrics) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(endpoint, code).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// NotificationEmitted counts one notification that passed its cooldown.
func (m *Metrics) NotificationEmitted(metric, level string) {
	m.notifications.WithLabelValues(metric, level).Inc()
}

// SetEntities records the size of the last entity poll.
func (m *Metrics) SetEntities(total, running int) {
	m.entities.WithLabelValues("running").Set(float64(running))
	m.entities.WithLabelValues("other").Set(float64(total - running))
}

// Handler serves the registry at /metrics.
func (m *Metrics) Handler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

// Serve exposes Handler on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log logger.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't listen on metrics address "+addr,
			"Pick a free port in metrics.addr, or leave it empty to disable metrics")
	}

	srv := &http.Server{Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics on http://%s/metrics", ln.Addr())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return errors.WrapWithCode(err, errors.ErrConfig, "Metrics server stopped", "")
	}
	return nil
}

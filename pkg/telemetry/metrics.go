package telemetry

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics provides Prometheus metrics for deployment runs.
type Metrics struct {
	config MetricsConfig

	serverOnce sync.Once
	serverAddr string

	deploysStarted   *prometheus.CounterVec
	deploysCompleted *prometheus.CounterVec
	deployDuration   *prometheus.HistogramVec

	stepsExecuted      *prometheus.CounterVec
	stepDuration       *prometheus.HistogramVec
	suppressedFailures *prometheus.CounterVec

	activeDeploys prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance.
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		deploysStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deploys_started_total",
				Help:      "Total number of deployment runs started",
			},
			[]string{"target"},
		),
		deploysCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deploys_completed_total",
				Help:      "Total number of deployment runs completed",
			},
			[]string{"status"},
		),
		deployDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "deploy_duration_seconds",
				Help:      "Duration of deployment runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		stepsExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_executed_total",
				Help:      "Total number of pipeline steps executed",
			},
			[]string{"step", "status"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of pipeline step execution in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		suppressedFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suppressed_failures_total",
				Help:      "Total number of best-effort step failures swallowed",
			},
			[]string{"step"},
		),

		activeDeploys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_deploys",
				Help:      "Current number of active deployment runs",
			},
		),
	}

	registry.MustRegister(
		m.deploysStarted,
		m.deploysCompleted,
		m.deployDuration,
		m.stepsExecuted,
		m.stepDuration,
		m.suppressedFailures,
		m.activeDeploys,
	)

	return m, nil
}

// RecordDeployStarted increments the counter for started deploys.
func (m *Metrics) RecordDeployStarted(target string) {
	if m.deploysStarted == nil {
		return
	}
	m.deploysStarted.WithLabelValues(target).Inc()
	m.activeDeploys.Inc()
}

// RecordDeployCompleted records a completed deploy with its status and duration.
func (m *Metrics) RecordDeployCompleted(status string, duration time.Duration) {
	if m.deploysCompleted == nil {
		return
	}
	m.deploysCompleted.WithLabelValues(status).Inc()
	m.deployDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.activeDeploys.Dec()
}

// RecordStepExecution records the execution of a pipeline step.
func (m *Metrics) RecordStepExecution(step, status string, duration time.Duration) {
	if m.stepsExecuted == nil {
		return
	}
	m.stepsExecuted.WithLabelValues(step, status).Inc()
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// RecordSuppressedFailure records a swallowed best-effort step failure.
func (m *Metrics) RecordSuppressedFailure(step string) {
	if m.suppressedFailures == nil {
		return
	}
	m.suppressedFailures.WithLabelValues(step).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics. The server
// is started at most once per Metrics instance; later calls are no-ops, so
// a long-lived process can run many deploys without rebinding the address.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	var err error
	m.serverOnce.Do(func() {
		var listener net.Listener
		listener, err = net.Listen("tcp", m.config.ListenAddress)
		if err != nil {
			err = fmt.Errorf("failed to listen on %s: %w", m.config.ListenAddress, err)
			return
		}
		m.serverAddr = listener.Addr().String()

		mux := http.NewServeMux()
		mux.Handle(m.config.Path, m.Handler())

		server := &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if serveErr := server.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
				log.Error().Err(serveErr).Msg("metrics server error")
			}
		}()
	})

	return err
}

// ServerAddr returns the bound metrics listen address, or an empty string
// if the server has not been started.
func (m *Metrics) ServerAddr() string {
	return m.serverAddr
}

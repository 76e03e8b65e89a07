package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Phase results recorded by RunPhases.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// PushJob is the Pushgateway job name used by Metrics.Push.
const PushJob = "chzner"

// Metrics collects provisioning metrics in a private registry. A CLI run
// is short-lived, so the registry is pushed to a Pushgateway instead of
// being scraped. All methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	phaseTotal    *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	nodes         *prometheus.GaugeVec
}

// NewMetrics creates the provisioning metrics and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chzner",
				Subsystem: "provisioning",
				Name:      "phase_total",
				Help:      "Total number of provisioning phase runs by result",
			},
			[]string{"cluster", "phase", "result"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chzner",
				Subsystem: "provisioning",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 500ms to ~4min
			},
			[]string{"cluster", "phase"},
		),
		nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "chzner",
				Subsystem: "cluster",
				Name:      "nodes",
				Help:      "Number of nodes by status (planned, created, existing)",
			},
			[]string{"cluster", "status"},
		),
	}
	m.registry.MustRegister(m.phaseTotal, m.phaseDuration, m.nodes)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordPhase records one phase run.
func (m *Metrics) RecordPhase(cluster, phase, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.phaseTotal.WithLabelValues(cluster, phase, result).Inc()
	m.phaseDuration.WithLabelValues(cluster, phase).Observe(duration.Seconds())
}

// RecordNodes records how many nodes were planned, newly created and found.
func (m *Metrics) RecordNodes(cluster string, planned, created, existing int) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(cluster, "planned").Set(float64(planned))
	m.nodes.WithLabelValues(cluster, "created").Set(float64(created))
	m.nodes.WithLabelValues(cluster, "existing").Set(float64(existing))
}

// Push sends the collected metrics to the Pushgateway at url, grouped by cluster.
func (m *Metrics) Push(ctx context.Context, url, cluster string) error {
	if m == nil {
		return nil
	}
	err := push.New(url, PushJob).
		Gatherer(m.registry).
		Grouping("cluster", cluster).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}

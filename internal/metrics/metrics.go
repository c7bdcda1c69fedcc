// Package metrics exposes Prometheus instrumentation for parallel regions
// and race audits.
//
// Every Metrics value owns its own registry so that independent runs (and
// tests) never collide on global registration. All recording methods are
// safe on a nil *Metrics, which is how callers opt out.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "forkjoin"

var _ prometheus.Gatherer = (*Metrics)(nil)

// Metrics holds the collectors for one process run.
type Metrics struct {
	registry *prometheus.Registry

	regions        prometheus.Counter
	chunks         *prometheus.CounterVec
	merges         prometheus.Counter
	races          *prometheus.CounterVec
	regionDuration *prometheus.HistogramVec
}

// New creates a Metrics value with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		regions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_total",
			Help:      "Parallel regions forked and joined",
		}),
		chunks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Iteration chunks handed to workers, by schedule kind",
		}, []string{"schedule"}),
		merges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Private partial results merged inside a critical section",
		}),
		races: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_total",
			Help:      "Unique data races flagged by the auditor, by access kind",
		}, []string{"kind"}),
		regionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "region_duration_seconds",
			Help:      "Wall time from fork to join of a parallel region",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"region"}),
	}
}

// Gather implements prometheus.Gatherer. A nil Metrics gathers nothing.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	if m == nil {
		return nil, nil
	}
	return m.registry.Gather()
}

// RegionForked counts one parallel region.
func (m *Metrics) RegionForked() {
	if m == nil {
		return
	}
	m.regions.Inc()
}

// ObserveRegion records how long a region took from fork to join.
func (m *Metrics) ObserveRegion(region string, d time.Duration) {
	if m == nil {
		return
	}
	m.regionDuration.WithLabelValues(region).Observe(d.Seconds())
}

// ChunkDispatched counts one chunk handed out under the given schedule kind.
func (m *Metrics) ChunkDispatched(schedule string) {
	if m == nil {
		return
	}
	m.chunks.WithLabelValues(schedule).Inc()
}

// MergeDone counts one private-to-shared merge.
func (m *Metrics) MergeDone() {
	if m == nil {
		return
	}
	m.merges.Inc()
}

// RaceFlagged counts one unique race of the given kind (write-write, ...).
func (m *Metrics) RaceFlagged(kind string) {
	if m == nil {
		return
	}
	m.races.WithLabelValues(kind).Inc()
}

// Dump writes every gathered metric family in the Prometheus text format.
func (m *Metrics) Dump(w io.Writer) error {
	families, err := m.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

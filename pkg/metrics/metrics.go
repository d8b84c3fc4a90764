// Package metrics exposes engine activity as Prometheus collectors.
package metrics

import (
	"context"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds the engine metrics.
type Collectors struct {
	Clones        *prometheus.CounterVec
	CloneDuration prometheus.Histogram
	Documents     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collectors, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collectors{
		Clones: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fbxtools_clone_total",
				Help: "Total number of clone operations by outcome",
			},
			[]string{"status"},
		),
		CloneDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fbxtools_clone_duration_seconds",
				Help:    "Duration of clone operations",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		Documents: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fbxtools_document_records",
				Help:    "Number of records in documents read or written",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"direction"},
		),
	}
	for _, col := range []prometheus.Collector{c.Clones, c.CloneDuration, c.Documents} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDocumentLoad: func(_ context.Context, e *domain.DocumentEvent) {
			if e.Err == nil {
				c.Documents.WithLabelValues("load").Observe(float64(e.Records))
			}
		},
		OnDocumentSave: func(_ context.Context, e *domain.DocumentEvent) {
			if e.Err == nil {
				c.Documents.WithLabelValues("save").Observe(float64(e.Records))
			}
		},
		OnCloneFinish: func(_ context.Context, e *domain.CloneEvent) {
			c.Clones.WithLabelValues(string(e.Result.Status)).Inc()
			c.CloneDuration.Observe(e.Result.Duration().Seconds())
		},
	}
}

package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/motionkit/sequencer/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	runStartedTotal     *prom.CounterVec
	runFinishedTotal    *prom.CounterVec
	runDurationSeconds  *prom.HistogramVec
	stepDurationSeconds *prom.HistogramVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "sequencer"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	startedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_started_total",
		Help:      "Total number of started runs.",
	}, []string{"tag", "animated"})
	finishedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_finished_total",
		Help:      "Total number of finished runs by outcome.",
	}, []string{"tag", "outcome"})
	runDurationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock run duration in seconds.",
		Buckets:   buckets,
	}, []string{"tag", "outcome"})
	stepDurationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "step_duration_seconds",
		Help:      "Wall-clock step duration in seconds.",
		Buckets:   buckets,
	}, []string{"tag", "forced"})

	var err error
	if startedVec, err = registerCollector(reg, startedVec); err != nil {
		return nil, err
	}
	if finishedVec, err = registerCollector(reg, finishedVec); err != nil {
		return nil, err
	}
	if runDurationVec, err = registerCollector(reg, runDurationVec); err != nil {
		return nil, err
	}
	if stepDurationVec, err = registerCollector(reg, stepDurationVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		runStartedTotal:     startedVec,
		runFinishedTotal:    finishedVec,
		runDurationSeconds:  runDurationVec,
		stepDurationSeconds: stepDurationVec,
	}, nil
}

// RecordRunStarted records the start of a run.
func (m *MetricsExporter) RecordRunStarted(tag string, animated bool) {
	if m == nil {
		return
	}
	m.runStartedTotal.WithLabelValues(normalizeLabel(tag, "untagged"), strconv.FormatBool(animated)).Inc()
}

// RecordRunFinished records a finished run and its wall-clock duration.
func (m *MetricsExporter) RecordRunFinished(tag string, outcome core.RunOutcome, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{normalizeLabel(tag, "untagged"), string(outcome)}
	m.runFinishedTotal.WithLabelValues(labels...).Inc()
	m.runDurationSeconds.WithLabelValues(labels...).Observe(duration.Seconds())
}

// RecordStepFinished records a finished step.
func (m *MetricsExporter) RecordStepFinished(tag string, stepTag string, forced bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.stepDurationSeconds.WithLabelValues(normalizeLabel(tag, "untagged"), strconv.FormatBool(forced)).Observe(duration.Seconds())
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}

package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted while loading and querying
// Earth orientation data.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline with hot paths such as per-date parameter lookups.
type Collector interface {
	IncTableLoad(source string)
	IncLineSkipped(source string, count uint64)
	IncExtrapolation(parameter, policy string)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncTableLoad(string)             {}
func (noopCollector) IncLineSkipped(string, uint64)   {}
func (noopCollector) IncExtrapolation(string, string) {}

// PrometheusCollector exposes telemetry counters via Prometheus.
type PrometheusCollector struct {
	tableLoads    *prometheus.CounterVec
	linesSkipped  *prometheus.CounterVec
	extrapolation *prometheus.CounterVec
}

var (
	tableLoadCounter         *prometheus.CounterVec
	tableLoadCounterLock     sync.Mutex
	lineSkipCounter          *prometheus.CounterVec
	lineSkipCounterLock      sync.Mutex
	extrapolationCounter     *prometheus.CounterVec
	extrapolationCounterLock sync.Mutex
)

// NewPrometheusCollector registers the required metrics with the provided registerer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	tableLoadCounterLock.Lock()
	if tableLoadCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eopkit_table_loads_total",
			Help: "Number of Earth orientation tables constructed per source format.",
		}, []string{"source"})
		registered, err := registerCounter(reg, counter)
		if err != nil {
			tableLoadCounterLock.Unlock()
			return nil, err
		}
		tableLoadCounter = registered
	}
	tableLoadCounterLock.Unlock()

	lineSkipCounterLock.Lock()
	if lineSkipCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eopkit_parse_lines_skipped_total",
			Help: "Number of malformed bulletin lines skipped by the tolerant loader.",
		}, []string{"source"})
		registered, err := registerCounter(reg, counter)
		if err != nil {
			lineSkipCounterLock.Unlock()
			return nil, err
		}
		lineSkipCounter = registered
	}
	lineSkipCounterLock.Unlock()

	extrapolationCounterLock.Lock()
	if extrapolationCounter == nil {
		counter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eopkit_extrapolation_fallback_total",
			Help: "Number of parameter lookups answered by the extrapolation policy instead of table data.",
		}, []string{"parameter", "policy"})
		registered, err := registerCounter(reg, counter)
		if err != nil {
			extrapolationCounterLock.Unlock()
			return nil, err
		}
		extrapolationCounter = registered
	}
	extrapolationCounterLock.Unlock()

	return &PrometheusCollector{
		tableLoads:    tableLoadCounter,
		linesSkipped:  lineSkipCounter,
		extrapolation: extrapolationCounter,
	}, nil
}

// registerCounter registers the counter or adopts an already registered
// collector carrying the same descriptor.
func registerCounter(reg prometheus.Registerer, counter *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(counter); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}

// IncTableLoad increments the load counter for the given source format.
func (p *PrometheusCollector) IncTableLoad(source string) {
	if p == nil || p.tableLoads == nil {
		return
	}
	p.tableLoads.WithLabelValues(source).Inc()
}

// IncLineSkipped records skipped lines for a source format.
func (p *PrometheusCollector) IncLineSkipped(source string, count uint64) {
	if p == nil || p.linesSkipped == nil || count == 0 {
		return
	}
	p.linesSkipped.WithLabelValues(source).Add(float64(count))
}

// IncExtrapolation counts a lookup answered by the extrapolation policy.
func (p *PrometheusCollector) IncExtrapolation(parameter, policy string) {
	if p == nil || p.extrapolation == nil {
		return
	}
	p.extrapolation.WithLabelValues(parameter, policy).Inc()
}

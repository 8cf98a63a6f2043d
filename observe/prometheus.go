package observe

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// taskDurationBuckets covers sub-millisecond tasks up to minute-long ones.
var taskDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30, 60}

// Prometheus is a Metrics implementation backed by prometheus/client_golang.
// Vecs are promauto-registered on first use; the same name must always be
// requested with the same tag keys.
type Prometheus struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheus creates a Prometheus metrics registry. A nil reg uses the
// default registerer.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Prometheus{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// splitTags separates "k1, v1, k2, v2" tags into label keys and values.
func splitTags(tags []string) (keys, values []string) {
	for i := 0; i+1 < len(tags); i += 2 {
		keys = append(keys, tags[i])
		values = append(values, tags[i+1])
	}
	return keys, values
}

// Counter implements Metrics.
func (p *Prometheus) Counter(name string, tags ...string) Counter {
	keys, values := splitTags(tags)

	p.mu.Lock()
	vec, ok := p.counters[name]
	if !ok {
		vec = promauto.With(p.reg).NewCounterVec(
			prometheus.CounterOpts{Name: name, Help: name},
			keys,
		)
		p.counters[name] = vec
	}
	p.mu.Unlock()

	return vec.WithLabelValues(values...)
}

// Gauge implements Metrics.
func (p *Prometheus) Gauge(name string, tags ...string) Gauge {
	keys, values := splitTags(tags)

	p.mu.Lock()
	vec, ok := p.gauges[name]
	if !ok {
		vec = promauto.With(p.reg).NewGaugeVec(
			prometheus.GaugeOpts{Name: name, Help: name},
			keys,
		)
		p.gauges[name] = vec
	}
	p.mu.Unlock()

	return vec.WithLabelValues(values...)
}

// Histogram implements Metrics.
func (p *Prometheus) Histogram(name string, tags ...string) Histogram {
	keys, values := splitTags(tags)

	p.mu.Lock()
	vec, ok := p.histograms[name]
	if !ok {
		vec = promauto.With(p.reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name,
				Help:    name,
				Buckets: taskDurationBuckets,
			},
			keys,
		)
		p.histograms[name] = vec
	}
	p.mu.Unlock()

	return vec.WithLabelValues(values...)
}

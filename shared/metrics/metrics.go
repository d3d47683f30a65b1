// Package metrics exposes Prometheus instruments for the executor and the LRU cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/on-the-ground/boundrun/shared/lru"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Executor holds the instruments an executor reports to.
type Executor struct {
	RunsTotal     prometheus.Counter
	TasksStarted  prometheus.Counter
	TasksSettled  *prometheus.CounterVec
	TasksInFlight prometheus.Gauge
	TaskDuration  prometheus.Histogram
}

// NewExecutorMetrics registers the executor instruments on reg.
func NewExecutorMetrics(reg prometheus.Registerer, namespace string) *Executor {
	factory := promauto.With(reg)
	return &Executor{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Total number of bounded runs",
		}),
		TasksStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_started_total",
			Help:      "Total number of tasks admitted",
		}),
		TasksSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_settled_total",
			Help:      "Total number of settled tasks by outcome",
		}, []string{"outcome"}),
		TasksInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_in_flight",
			Help:      "Number of tasks currently admitted and not settled",
		}),
		TaskDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "task_duration_seconds",
			Help:      "Task latency from admission to settlement in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}

// RecordRun counts one executor run.
func (m *Executor) RecordRun() {
	m.RunsTotal.Inc()
}

// RecordStart records the admission of one task.
func (m *Executor) RecordStart() {
	m.TasksStarted.Inc()
	m.TasksInFlight.Inc()
}

// RecordSettle records the settlement of one task.
func (m *Executor) RecordSettle(success bool, duration time.Duration) {
	m.TasksInFlight.Dec()
	m.TaskDuration.Observe(duration.Seconds())
	if success {
		m.TasksSettled.WithLabelValues(OutcomeSuccess).Inc()
	} else {
		m.TasksSettled.WithLabelValues(OutcomeFailure).Inc()
	}
}

// StatsSource is satisfied by *lru.Cache.
type StatsSource interface {
	Stats() lru.Stats
	Len() int
	Cap() int
}

type cacheCollector struct {
	source    StatsSource
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
	capacity  *prometheus.Desc
}

// NewCacheCollector reads the cache's counters on every scrape. name becomes
// the constant "cache" label.
func NewCacheCollector(namespace, name string, source StatsSource) prometheus.Collector {
	labels := prometheus.Labels{"cache": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "lru", metric), help, nil, labels)
	}
	return &cacheCollector{
		source:    source,
		hits:      desc("hits_total", "Total number of cache hits"),
		misses:    desc("misses_total", "Total number of cache misses"),
		evictions: desc("evictions_total", "Total number of capacity evictions"),
		entries:   desc("entries", "Current number of entries"),
		capacity:  desc("capacity", "Fixed capacity of the cache"),
	}
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
	ch <- c.capacity
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(stats.Evictions))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.source.Len()))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.source.Cap()))
}

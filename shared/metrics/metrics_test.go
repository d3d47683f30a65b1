package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/boundrun/shared/lru"
	"github.com/on-the-ground/boundrun/shared/metrics"
)

func TestExecutorMetrics_RecordsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewExecutorMetrics(reg, "test")

	m.RecordRun()
	m.RecordStart()
	m.RecordStart()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TasksInFlight))

	m.RecordSettle(true, 10*time.Millisecond)
	m.RecordSettle(false, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TasksStarted))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TasksInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksSettled.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksSettled.WithLabelValues(metrics.OutcomeFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TaskDuration))
}

func TestExecutorMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewExecutorMetrics(reg, "test")
	assert.Panics(t, func() { metrics.NewExecutorMetrics(reg, "test") })
}

func TestCacheCollector_ReportsStats(t *testing.T) {
	c, err := lru.New[string, int](2)
	require.NoError(t, err)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("zzz")
	c.Put("c", 3)

	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCacheCollector("test", "words", c))

	expected := `
# HELP test_lru_capacity Fixed capacity of the cache
# TYPE test_lru_capacity gauge
test_lru_capacity{cache="words"} 2
# HELP test_lru_entries Current number of entries
# TYPE test_lru_entries gauge
test_lru_entries{cache="words"} 2
# HELP test_lru_evictions_total Total number of capacity evictions
# TYPE test_lru_evictions_total counter
test_lru_evictions_total{cache="words"} 1
# HELP test_lru_hits_total Total number of cache hits
# TYPE test_lru_hits_total counter
test_lru_hits_total{cache="words"} 1
# HELP test_lru_misses_total Total number of cache misses
# TYPE test_lru_misses_total counter
test_lru_misses_total{cache="words"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorRecord(t *testing.T) {
	m := NewMonitor()

	m.Record(MetricRecompute, 2*time.Millisecond)
	m.Record(MetricRecompute, 4*time.Millisecond)
	m.Record(MetricRecompute, 3*time.Millisecond)

	metric := m.Metric(MetricRecompute)
	require.NotNil(t, metric)
	assert.Equal(t, int64(3), metric.Count)
	assert.Equal(t, 2*time.Millisecond, metric.MinTime)
	assert.Equal(t, 4*time.Millisecond, metric.MaxTime)
	assert.Equal(t, 3*time.Millisecond, metric.LastTime)
	assert.Equal(t, 3*time.Millisecond, metric.AverageTime())
	assert.Equal(t, 3500*time.Microsecond, metric.RecentAverageTime(2))
}

func TestMonitorUnknownMetric(t *testing.T) {
	m := NewMonitor()
	assert.Nil(t, m.Metric("missing"))

	var nilMetric *Metric
	assert.Zero(t, nilMetric.AverageTime())
}

func TestMonitorSampleWindow(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < 150; i++ {
		m.Record(MetricRender, time.Duration(i)*time.Microsecond)
	}

	metric := m.Metric(MetricRender)
	require.NotNil(t, metric)
	assert.Len(t, metric.Samples, 100)
	assert.Equal(t, 50*time.Microsecond, metric.Samples[0])
	assert.Equal(t, int64(150), metric.Count)
}

func TestMonitorMetricIsCopy(t *testing.T) {
	m := NewMonitor()
	m.Record(MetricOffsetTable, time.Millisecond)

	metric := m.Metric(MetricOffsetTable)
	metric.Samples[0] = time.Hour
	metric.Count = 99

	fresh := m.Metric(MetricOffsetTable)
	assert.Equal(t, time.Millisecond, fresh.Samples[0])
	assert.Equal(t, int64(1), fresh.Count)
}

func TestMonitorTimerNamesAndReset(t *testing.T) {
	m := NewMonitor()
	stop := m.StartTimer(MetricRecompute)
	stop()
	m.Record(MetricOffsetTable, time.Millisecond)

	assert.Equal(t, []string{MetricOffsetTable, MetricRecompute}, m.Names())

	m.Reset()
	assert.Empty(t, m.Names())
}

func TestNilMonitorIsSafe(t *testing.T) {
	var m *Monitor
	m.Record(MetricRecompute, time.Millisecond)
	m.StartTimer(MetricRecompute)()
	assert.Nil(t, m.Metric(MetricRecompute))
	assert.Nil(t, m.Names())
}

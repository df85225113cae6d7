package performance

import (
	"sort"
	"sync"
	"time"
)

// Metric names recorded by the list components
const (
	MetricRecompute   = "recompute"
	MetricOffsetTable = "offset_table"
	MetricRender      = "render"
)

// Monitor collects timings for named operations
type Monitor struct {
	metrics    map[string]*Metric
	maxSamples int
	mutex      sync.RWMutex
}

// Metric holds timing statistics for one operation
type Metric struct {
	Name        string
	Count       int64
	TotalTime   time.Duration
	MinTime     time.Duration
	MaxTime     time.Duration
	LastTime    time.Duration
	LastUpdated time.Time
	Samples     []time.Duration
}

// NewMonitor creates a monitor that keeps the last 100 samples per metric
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:    make(map[string]*Metric),
		maxSamples: 100,
	}
}

// StartTimer starts timing an operation; call the returned func when it finishes
func (m *Monitor) StartTimer(name string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(name, time.Since(start))
	}
}

// Record adds one duration sample for a metric
func (m *Monitor) Record(name string, duration time.Duration) {
	if m == nil {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	metric, exists := m.metrics[name]
	if !exists {
		metric = &Metric{
			Name:    name,
			MinTime: duration,
			MaxTime: duration,
			Samples: make([]time.Duration, 0, m.maxSamples),
		}
		m.metrics[name] = metric
	}

	metric.Count++
	metric.TotalTime += duration
	metric.LastTime = duration
	metric.LastUpdated = time.Now()
	if duration < metric.MinTime {
		metric.MinTime = duration
	}
	if duration > metric.MaxTime {
		metric.MaxTime = duration
	}

	if len(metric.Samples) >= m.maxSamples {
		metric.Samples = metric.Samples[1:]
	}
	metric.Samples = append(metric.Samples, duration)
}

// Metric returns a copy of the named metric, or nil when nothing was recorded
func (m *Monitor) Metric(name string) *Metric {
	if m == nil {
		return nil
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	metric, exists := m.metrics[name]
	if !exists {
		return nil
	}
	return metric.clone()
}

// Names returns the recorded metric names in sorted order
func (m *Monitor) Names() []string {
	if m == nil {
		return nil
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	names := make([]string, 0, len(m.metrics))
	for name := range m.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset clears every metric
func (m *Monitor) Reset() {
	if m == nil {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.metrics = make(map[string]*Metric)
}

func (m *Metric) clone() *Metric {
	c := *m
	c.Samples = append([]time.Duration(nil), m.Samples...)
	return &c
}

// AverageTime returns the mean duration over all samples ever recorded
func (m *Metric) AverageTime() time.Duration {
	if m == nil || m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// RecentAverageTime returns the mean of the last sampleCount samples
func (m *Metric) RecentAverageTime(sampleCount int) time.Duration {
	if m == nil || len(m.Samples) == 0 || sampleCount <= 0 {
		return 0
	}

	start := len(m.Samples) - sampleCount
	if start < 0 {
		start = 0
	}

	var total time.Duration
	for _, sample := range m.Samples[start:] {
		total += sample
	}
	return total / time.Duration(len(m.Samples)-start)
}

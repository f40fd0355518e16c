package selmaGate

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one gate counter or histogram.
type MetricID uint16

const (
	// MetricPermissionGranted counts HasPermission calls that returned true.
	MetricPermissionGranted MetricID = iota
	// MetricPermissionDenied counts HasPermission calls that returned false.
	MetricPermissionDenied
	// MetricPermissionMalformed counts checks that hit an undecodable
	// permissions string.
	MetricPermissionMalformed
	// MetricNavigationAllowed counts allowed navigation checks.
	MetricNavigationAllowed
	// MetricNavigationDenied counts denied navigation checks.
	MetricNavigationDenied
	// MetricSessionExpired counts records rejected for an expired token.
	MetricSessionExpired
	// MetricSessionMalformed counts records rejected for an undecodable
	// record or token.
	MetricSessionMalformed
	// MetricSessionCleared counts records removed by the gate.
	MetricSessionCleared
	// MetricSessionEstablished counts records persisted by Establish.
	MetricSessionEstablished
	// MetricLogout counts Logout calls.
	MetricLogout
	// MetricIdleExpired counts sessions destroyed by the idle guard.
	MetricIdleExpired
	// MetricStoreUnavailable counts storage backend failures.
	MetricStoreUnavailable
	// MetricCheckLatency is the latency histogram of gate checks.
	MetricCheckLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free gate counters. A nil *Metrics discards updates.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of [Metrics]. Histogram buckets are
// per-bucket counts, not cumulative.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram id. Only [MetricCheckLatency] has a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricCheckLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current counter value of id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter, and the latency histogram when enabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricCheckLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricCheckLatency].buckets[i])
		}
		s.Histograms[MetricCheckLatency] = buckets
	}

	return s
}

// Gate checks are a storage read plus JSON decoding, so buckets are finer
// than request latencies.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 50:
		return 0
	case us <= 100:
		return 1
	case us <= 250:
		return 2
	case us <= 500:
		return 3
	case us <= 1000:
		return 4
	case us <= 5000:
		return 5
	case us <= 25000:
		return 6
	default:
		return 7
	}
}

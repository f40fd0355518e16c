package internaldefs

import (
	selmaGate "github.com/MrEthical07/selmaGate"
)

// CounterDef names one gate counter for exporters.
type CounterDef struct {
	ID   selmaGate.MetricID
	Name string
	Help string
}

// HistogramDef names one gate histogram for exporters.
type HistogramDef struct {
	ID   selmaGate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: selmaGate.MetricPermissionGranted, Name: "selmagate_permission_granted_total", Help: "Permission checks that granted the feature."},
	{ID: selmaGate.MetricPermissionDenied, Name: "selmagate_permission_denied_total", Help: "Permission checks that denied the feature."},
	{ID: selmaGate.MetricPermissionMalformed, Name: "selmagate_permission_malformed_total", Help: "Permission checks that found an undecodable permissions string."},
	{ID: selmaGate.MetricNavigationAllowed, Name: "selmagate_navigation_allowed_total", Help: "Navigation checks that allowed entry."},
	{ID: selmaGate.MetricNavigationDenied, Name: "selmagate_navigation_denied_total", Help: "Navigation checks that redirected to login."},
	{ID: selmaGate.MetricSessionExpired, Name: "selmagate_session_expired_total", Help: "Sessions rejected for an expired token."},
	{ID: selmaGate.MetricSessionMalformed, Name: "selmagate_session_malformed_total", Help: "Sessions rejected for an undecodable record or token."},
	{ID: selmaGate.MetricSessionCleared, Name: "selmagate_session_cleared_total", Help: "Session records removed by the gate."},
	{ID: selmaGate.MetricSessionEstablished, Name: "selmagate_session_established_total", Help: "Session records persisted at login."},
	{ID: selmaGate.MetricLogout, Name: "selmagate_logout_total", Help: "Logout operations."},
	{ID: selmaGate.MetricIdleExpired, Name: "selmagate_idle_expired_total", Help: "Sessions destroyed for inactivity."},
	{ID: selmaGate.MetricStoreUnavailable, Name: "selmagate_store_unavailable_total", Help: "Session store backend failures."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: selmaGate.MetricCheckLatency, Name: "selmagate_check_latency_seconds", Help: "Latency of permission and navigation checks."},
}

// AuditDroppedName is the counter of audit events lost to backpressure.
const (
	AuditDroppedName = "selmagate_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramBounds are the upper bounds of the gate's latency buckets, in
// seconds.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.005",
	"0.025",
	"+Inf",
}

// HistogramBoundSuffix spells HistogramBounds for instrument names.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_005",
	"0_025",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling missing
// buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// Package prometheus renders selmaGate metrics in Prometheus text exposition
// format. Counters are named selmagate_*_total; the check latency histogram
// is selmagate_check_latency_seconds. Callers mount [Exporter.Handler]; no
// global registry is touched.
package prometheus

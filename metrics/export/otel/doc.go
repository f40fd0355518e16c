// Package otel exposes selmaGate metrics as OpenTelemetry asynchronous
// instruments: an Int64ObservableCounter per counter and an
// Int64ObservableGauge per latency bucket. Callers own the MeterProvider.
package otel

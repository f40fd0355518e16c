// Package audit implements async event dispatching for gate decisions and
// session lifecycle changes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, slog, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full or block-if-full semantics.
//   - [Event]: structured audit record with timestamp, type, client, role, feature and reason.
//
// This package owns event buffering and sink delivery. The gate decides which
// events to emit.
package audit

// Package internal holds helpers that are private to selmaGate.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - logattr: nil-safe slog attribute constructors
//
// Nothing here appears in the public selmaGate API.
package internal

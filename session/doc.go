// Package session owns the persisted dashboard session record: its model, the
// two-step decoder, and the storage backends that hold it.
//
// # Record layout
//
// A session is one JSON object stored under a single key ("authUser"):
//
//	{"token":"<jwt>","payload":{"data":{"role":"editor","permissions":"{\"news\":true}"}}}
//
// The permissions field is itself a JSON-encoded string. Decoding is split in
// two steps, [DecodeRecord] then [DecodePermissions], so a bad permissions
// string never invalidates the token it travels with.
//
// # Storage scope
//
// Every [Store] call is scoped by the client ID carried in the context
// ([WithClient]). Within one scope at most one record exists and the last
// write wins.
//
// # Architecture boundaries
//
// This package does NOT interpret JWT claims or make authorization decisions;
// those belong to the jwt and permission packages and to the Gate.
//
// # What this package must NOT do
//
//   - Import selmaGate, jwt, or permission (no upward imports).
//   - Treat a partially decoded record as valid.
package session

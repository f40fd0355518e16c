// Package permission decides whether a session may use a dashboard feature.
//
// # Decision rule
//
// A record whose role, trimmed and lower-cased, equals "admin" is granted
// every feature. Any other role is granted exactly the features whose entry
// in the decoded permissions map is the JSON boolean true. Every decode
// failure denies.
//
// # Feature vocabulary
//
// The feature keys used by the dashboard menu are declared as constants and
// can be loaded into a [Registry], which assigns each a stable bit so grant
// sets can be computed once and listed in menu order. [Check] itself does not
// enforce the vocabulary: unknown keys are simply not granted.
//
// # What this package must NOT do
//
//   - Read or write session storage.
//   - Return a grant for any input it failed to decode.
package permission

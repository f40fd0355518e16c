// Package jwt handles the dashboard's session tokens.
//
// Two concerns live here and must stay separate:
//
//   - [DecodeClaims] reads the expiry of a token WITHOUT verifying its
//     signature. The session guard uses it to skip an obviously expired
//     session before any request reaches the backend. It is a UX shortcut,
//     not a security boundary.
//   - [Manager] issues and verifies signed tokens. This is what the backend
//     (and the development tooling) relies on; every API request must still be
//     verified server-side.
package jwt

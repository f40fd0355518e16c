// Package middleware adapts a selmaGate.Gate to net/http.
//
// # Handlers
//
//   - [ClientScope]: binds each request to a client scope kept in a cookie.
//   - [RequireSession]: redirects to login when the session is absent or expired.
//   - [RequireFeature]: answers 403 when the session lacks a feature.
//   - [TrackActivity]: feeds authenticated requests to the idle guard.
//
// A dashboard route is typically wrapped as
//
//	ClientScope(cookie)(RequireSession(g)(TrackActivity(g)(RequireFeature(g, "news")(h))))
//
// This package translates HTTP semantics into Gate calls and makes no
// decisions of its own.
package middleware

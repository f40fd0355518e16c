package selmaGate

import (
	"context"
	"time"
)

// DenyReason explains a negative navigation decision.
type DenyReason string

const (
	// ReasonNone accompanies an allowed decision.
	ReasonNone DenyReason = ""
	// ReasonNoSession means the scope holds no record.
	ReasonNoSession DenyReason = "no_session"
	// ReasonMalformedRecord means the stored record could not be decoded.
	ReasonMalformedRecord DenyReason = "malformed_record"
	// ReasonMalformedToken means the token's expiry claim could not be read.
	ReasonMalformedToken DenyReason = "malformed_token"
	// ReasonTokenExpired means the token's exp is at or before now.
	ReasonTokenExpired DenyReason = "token_expired"
	// ReasonStoreUnavailable means the storage backend failed. The record, if
	// any, is left in place.
	ReasonStoreUnavailable DenyReason = "store_unavailable"
)

// Clears reports whether a denial with this reason removes the stored record.
func (r DenyReason) Clears() bool {
	switch r {
	case ReasonMalformedRecord, ReasonMalformedToken, ReasonTokenExpired:
		return true
	default:
		return false
	}
}

// Decision is the outcome of a navigation check.
type Decision struct {
	Allow bool
	// RedirectTarget is the login location to send the client to when Allow
	// is false. It carries the requested location when that location is a
	// local path.
	RedirectTarget string
	Reason         DenyReason
	// ExpiresAt is the token expiry of an allowed session.
	ExpiresAt time.Time
}

// Navigator performs the redirect to the login screen when the gate acts
// without a caller to return a Decision to, as on idle expiry.
type Navigator interface {
	RedirectToLogin(ctx context.Context, origin string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, origin string)

// RedirectToLogin calls f.
func (f NavigatorFunc) RedirectToLogin(ctx context.Context, origin string) {
	f(ctx, origin)
}

type noopNavigator struct{}

func (noopNavigator) RedirectToLogin(context.Context, string) {}

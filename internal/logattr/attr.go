// Package logattr holds slog attribute helpers shared by the gate and its
// sub-packages. Helpers return an empty slog.Attr for zero inputs so call
// sites can pass them unconditionally.
package logattr

import (
	"log/slog"
	"time"
)

// Error returns the "error" attribute, or an empty Attr for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Client returns the storage scope attribute.
func Client(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("client_id", id)
}

// Feature returns the feature key attribute.
func Feature(key string) slog.Attr {
	return slog.String("feature", key)
}

// Role returns the normalized role attribute.
func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

// Reason returns a decision reason attribute.
func Reason(reason string) slog.Attr {
	if reason == "" {
		return slog.Attr{}
	}
	return slog.String("reason", reason)
}

// Location returns the navigation target attribute.
func Location(loc string) slog.Attr {
	return slog.String("location", loc)
}

// Expiry returns the token expiry attribute.
func Expiry(t time.Time) slog.Attr {
	if t.IsZero() {
		return slog.Attr{}
	}
	return slog.Time("expires_at", t)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

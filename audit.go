package selmaGate

import (
	"io"
	"log/slog"

	"github.com/MrEthical07/selmaGate/internal/audit"
)

// Audit event types emitted by the gate.
const (
	AuditPermissionCheck    = "permission_check"
	AuditNavigationDenied   = "navigation_denied"
	AuditSessionCleared     = "session_cleared"
	AuditSessionEstablished = "session_established"
	AuditLogout             = "logout"
	AuditIdleExpired        = "idle_expired"
)

type (
	// AuditEvent is one gate decision or session lifecycle change.
	AuditEvent = audit.Event
	// AuditSink receives audit events from the gate's dispatcher goroutine.
	AuditSink = audit.Sink
	// NoOpSink drops audit events.
	NoOpSink = audit.NoOpSink
	// ChannelSink buffers audit events in a channel.
	ChannelSink = audit.ChannelSink
	// JSONWriterSink writes one JSON object per event line.
	JSONWriterSink = audit.JSONWriterSink
	// SlogSink logs audit events.
	SlogSink = audit.SlogSink
)

// NewChannelSink returns a [ChannelSink] with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a [JSONWriterSink] writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink returns a [SlogSink]. A nil logger uses slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return audit.NewSlogSink(logger)
}

package selmaGate

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/jwt"
	"github.com/MrEthical07/selmaGate/permission"
	"github.com/MrEthical07/selmaGate/session"
)

// Establish persists rec as the client's session, replacing any previous
// one, and arms the idle guard. It is called by the login flow with the
// token and payload returned by the backend.
//
// The token must carry a readable exp claim in the future; otherwise the
// record would be rejected by the next navigation check and Establish fails
// with [ErrInvalidRecord].
func (g *Gate) Establish(ctx context.Context, rec *session.Record) error {
	if !g.ready() {
		return ErrGateNotReady
	}
	if rec == nil {
		return ErrInvalidRecord
	}

	claims, err := jwt.DecodeClaims(rec.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if claims.Expired(g.clock.Now()) {
		return fmt.Errorf("%w: token expired at %s", ErrInvalidRecord, claims.ExpiresAt)
	}
	if _, err := session.DecodePermissions(rec); err != nil && !errors.Is(err, session.ErrPermissionsAbsent) {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if err := session.Write(ctx, g.store, rec); err != nil {
		return err
	}

	clientID := session.ClientFromContext(ctx)
	if g.tracker != nil {
		g.tracker.Reset(clientID)
	}

	g.metrics.Inc(MetricSessionEstablished)
	g.logger.InfoContext(ctx, "session established",
		logattr.Client(clientID),
		logattr.Role(permission.NormalizeRole(rec.Role())),
		logattr.Expiry(claims.ExpiresAt),
	)
	g.emit(ctx, AuditEvent{
		EventType: AuditSessionEstablished,
		Role:      permission.NormalizeRole(rec.Role()),
		Success:   true,
	})
	return nil
}

// EstablishRaw decodes a record in its persisted JSON layout and calls
// [Gate.Establish].
func (g *Gate) EstablishRaw(ctx context.Context, raw []byte) error {
	rec, err := session.DecodeRecord(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return g.Establish(ctx, rec)
}

// Logout destroys the client's session and stops its idle timer. Logging
// out a client without a session is not an error.
func (g *Gate) Logout(ctx context.Context) error {
	if g == nil {
		return ErrGateNotReady
	}

	clientID := session.ClientFromContext(ctx)
	g.forgetIdle(clientID)

	if err := g.store.Clear(ctx); err != nil {
		g.metrics.Inc(MetricStoreUnavailable)
		return err
	}

	g.metrics.Inc(MetricLogout)
	g.logger.InfoContext(ctx, "session logged out", logattr.Client(clientID))
	g.emit(ctx, AuditEvent{
		EventType: AuditLogout,
		Success:   true,
	})
	return nil
}

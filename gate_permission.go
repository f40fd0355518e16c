package selmaGate

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/permission"
	"github.com/MrEthical07/selmaGate/session"
)

// HasPermission reports whether the stored session grants feature.
//
// The record is read fresh on each call. A missing or unreadable record,
// absent permissions, a malformed permissions string, or any value other
// than JSON true all deny. Admin roles are granted everything. The result is
// never an error and the call never panics.
func (g *Gate) HasPermission(ctx context.Context, feature string) bool {
	if g == nil {
		return false
	}
	start := time.Now()
	defer func() { g.metrics.Observe(MetricCheckLatency, time.Since(start)) }()

	rec, err := session.Read(ctx, g.store)
	if err != nil {
		reason := g.noteReadFailure(ctx, err)
		return g.permissionResult(ctx, feature, "", false, string(reason))
	}

	granted, err := permission.Check(rec, feature)
	if err != nil {
		g.metrics.Inc(MetricPermissionMalformed)
		g.logger.WarnContext(ctx, "session permissions malformed",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Feature(feature),
			logattr.Error(err),
		)
		return g.permissionResult(ctx, feature, rec.Role(), false, "malformed_permissions")
	}

	reason := ""
	if !granted {
		reason = "not_granted"
	}
	return g.permissionResult(ctx, feature, rec.Role(), granted, reason)
}

// GrantedFeatures lists the configured features the stored session grants,
// in configuration order. Admin sessions get every configured feature.
func (g *Gate) GrantedFeatures(ctx context.Context) []string {
	if g == nil {
		return nil
	}

	rec, err := session.Read(ctx, g.store)
	if err != nil {
		g.noteReadFailure(ctx, err)
		return nil
	}

	mask, err := g.registry.Grants(rec)
	if err != nil {
		g.metrics.Inc(MetricPermissionMalformed)
		g.logger.WarnContext(ctx, "session permissions malformed",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Error(err),
		)
		return nil
	}
	return g.registry.Names(mask)
}

// Role returns the stored session's role, trimmed and lower-cased, or "" when
// there is no readable session.
func (g *Gate) Role(ctx context.Context) string {
	if g == nil {
		return ""
	}
	rec, err := session.Read(ctx, g.store)
	if err != nil {
		g.noteReadFailure(ctx, err)
		return ""
	}
	return permission.NormalizeRole(rec.Role())
}

func (g *Gate) permissionResult(ctx context.Context, feature, role string, granted bool, reason string) bool {
	if granted {
		g.metrics.Inc(MetricPermissionGranted)
	} else {
		g.metrics.Inc(MetricPermissionDenied)
	}

	if g.config.Permission.LogDecisions {
		g.logger.DebugContext(ctx, "permission check",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Feature(feature),
			logattr.Role(permission.NormalizeRole(role)),
			logattr.Reason(reason),
		)
		g.emit(ctx, AuditEvent{
			EventType: AuditPermissionCheck,
			Role:      permission.NormalizeRole(role),
			Feature:   feature,
			Success:   granted,
			Reason:    reason,
		})
	}
	return granted
}

// noteReadFailure records why a read produced no record. Absence is the
// logged-out state and is not logged.
func (g *Gate) noteReadFailure(ctx context.Context, err error) DenyReason {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return ReasonNoSession
	case errors.Is(err, session.ErrMalformedRecord):
		g.logger.DebugContext(ctx, "session record unreadable",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Error(err),
		)
		return ReasonMalformedRecord
	default:
		g.metrics.Inc(MetricStoreUnavailable)
		g.logger.WarnContext(ctx, "session store unavailable",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Error(err),
		)
		return ReasonStoreUnavailable
	}
}

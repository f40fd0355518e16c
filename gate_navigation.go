package selmaGate

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/jwt"
	"github.com/MrEthical07/selmaGate/session"
)

// CheckNavigation decides whether the client may enter location.
//
// It reads the record, decodes the token's exp claim without verifying the
// signature and allows only when exp is after now. A record that cannot be
// decoded, or whose token is undecodable or expired, is removed so later
// checks see an absent session. A storage failure denies and leaves storage
// alone. Nothing is cached between calls.
func (g *Gate) CheckNavigation(ctx context.Context, location string) Decision {
	if g == nil {
		return Decision{Reason: ReasonNoSession}
	}
	start := time.Now()
	defer func() { g.metrics.Observe(MetricCheckLatency, time.Since(start)) }()

	rec, err := session.Read(ctx, g.store)
	if err != nil {
		reason := g.noteReadFailure(ctx, err)
		if reason == ReasonMalformedRecord {
			g.metrics.Inc(MetricSessionMalformed)
		}
		return g.deny(ctx, location, reason)
	}

	claims, err := jwt.DecodeClaims(rec.Token)
	if err != nil {
		g.metrics.Inc(MetricSessionMalformed)
		g.logger.DebugContext(ctx, "session token unreadable",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Error(err),
		)
		return g.deny(ctx, location, ReasonMalformedToken)
	}

	if claims.Expired(g.clock.Now()) {
		g.metrics.Inc(MetricSessionExpired)
		g.logger.DebugContext(ctx, "session token expired",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Expiry(claims.ExpiresAt),
		)
		return g.deny(ctx, location, ReasonTokenExpired)
	}

	g.metrics.Inc(MetricNavigationAllowed)
	return Decision{Allow: true, ExpiresAt: claims.ExpiresAt}
}

func (g *Gate) deny(ctx context.Context, location string, reason DenyReason) Decision {
	if reason.Clears() {
		g.clear(ctx, reason)
	}

	g.metrics.Inc(MetricNavigationDenied)
	g.emit(ctx, AuditEvent{
		EventType: AuditNavigationDenied,
		Location:  location,
		Success:   false,
		Reason:    string(reason),
	})

	return Decision{
		Allow:          false,
		RedirectTarget: g.LoginURL(location),
		Reason:         reason,
	}
}

// LoginURL returns the login location, carrying origin as the return
// parameter. Origins that are not local absolute paths, or that point at
// the login screen itself, are dropped.
func (g *Gate) LoginURL(origin string) string {
	loginPath := "/login"
	param := "next"
	if g != nil {
		loginPath = g.config.Navigation.LoginPath
		param = g.config.Navigation.ReturnParam
	}

	if !isLocalOrigin(origin) || isLoginOrigin(origin, loginPath) {
		return loginPath
	}

	q := url.Values{}
	q.Set(param, origin)
	sep := "?"
	if strings.Contains(loginPath, "?") {
		sep = "&"
	}
	return loginPath + sep + q.Encode()
}

func isLocalOrigin(origin string) bool {
	if !strings.HasPrefix(origin, "/") {
		return false
	}
	if strings.HasPrefix(origin, "//") || strings.HasPrefix(origin, "/\\") {
		return false
	}
	if strings.ContainsAny(origin, "\r\n") {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func isLoginOrigin(origin, loginPath string) bool {
	path := origin
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	base := loginPath
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return path == base
}

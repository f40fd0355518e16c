package selmaGate

import (
	"context"

	"github.com/MrEthical07/selmaGate/session"
)

// WithClientID scopes ctx to one client. Each browser or desktop shell is
// its own storage scope; without one the default scope "0" is used.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return session.WithClient(ctx, clientID)
}

// ClientIDFromContext returns the client scope carried by ctx.
func ClientIDFromContext(ctx context.Context) string {
	return session.ClientFromContext(ctx)
}

// detach keeps ctx's client scope but drops its deadline and cancellation,
// for cleanup that must outlive the request that triggered it.
func detach(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

package middleware

import (
	"context"
	"net/http"

	selmaGate "github.com/MrEthical07/selmaGate"
)

type decisionContextKey struct{}

// DecisionFromContext returns the navigation decision recorded by
// [RequireSession].
func DecisionFromContext(ctx context.Context) (selmaGate.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(selmaGate.Decision)
	return d, ok
}

// RequireSession runs the session validity guard for every request and
// redirects denied requests to the login location with 302 Found.
func RequireSession(gate *selmaGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			d := gate.CheckNavigation(r.Context(), r.URL.RequestURI())
			if !d.Allow {
				w.Header().Set("Cache-Control", "no-store")
				http.Redirect(w, r, d.RedirectTarget, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey{}, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFeature answers 403 Forbidden unless the session grants feature.
func RequireFeature(gate *selmaGate.Gate, feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil || !gate.HasPermission(r.Context(), feature) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TrackActivity records each request as activity for the idle guard. Mount
// it behind [RequireSession] so only authenticated requests count.
func TrackActivity(gate *selmaGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate != nil {
				gate.Touch(r.Context())
			}
			next.ServeHTTP(w, r)
		})
	}
}

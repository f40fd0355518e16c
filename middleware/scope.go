package middleware

import (
	"net/http"

	"github.com/google/uuid"

	selmaGate "github.com/MrEthical07/selmaGate"
)

// DefaultClientCookie names the cookie holding the client scope.
const DefaultClientCookie = "sg_client"

// ClientScope binds each request to the client scope stored in cookieName,
// issuing a random scope ID to clients that have none or present a value
// that is not a UUID.
func ClientScope(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultClientCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := clientIDFromCookie(r, cookieName)
			if !ok {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := selmaGate.WithClientID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIDFromCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

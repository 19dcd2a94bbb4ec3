package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Identity is the authenticated caller.
type Identity struct {
	UserID   string
	Username string
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyUser, id)
}

// IdentityFromContext returns the caller stored by Middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyUser).(Identity)
	return id, ok && id.UserID != ""
}

// Middleware rejects requests without a valid bearer token. onError writes
// the rejection so callers control the response shape.
func (s *Service) Middleware(onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := s.Identify(r, false)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Identify resolves the caller from the bearer header. With allowQuery a
// token query parameter is accepted too, since browsers cannot set headers
// on a websocket handshake.
func (s *Service) Identify(r *http.Request, allowQuery bool) (Identity, error) {
	var tok string
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tok = strings.TrimPrefix(h, "Bearer ")
	} else if allowQuery {
		tok = r.URL.Query().Get("token")
	}
	if tok == "" {
		return Identity{}, ErrInvalidToken
	}
	c, err := s.Parse(tok)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: c.Subject, Username: c.Username}, nil
}

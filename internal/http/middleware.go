package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/session"
)

type identityKey struct{}

// withIdentity resolves the session cookie to an identity context and
// attaches it to the request. The identity is immutable from here on; a
// missing or expired session simply leaves the request anonymous.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cfg.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		identity, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				s.logger.Error("session lookup failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		// The lookup slid the redis TTL forward; push the cookie's
		// expiry along with it so both sides age out together.
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.CookieName,
			Value:    cookie.Value,
			Path:     "/",
			MaxAge:   int(s.cfg.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   s.cfg.CookieSecure,
		})
		ctx := context.WithValue(r.Context(), identityKey{}, &identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey{}).(*model.Identity)
	return identity
}

// requireRole gates a subtree on an exact role. Failures are
// user-correctable: redirect home with a message, never a hard fault.
func (s *Server) requireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r.Context())
			if identity == nil {
				s.redirectWithFlash(w, r, "/", "error", "Please log in to view this resource")
				return
			}
			if identity.Role != role {
				s.redirectWithFlash(w, r, "/", "error", "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

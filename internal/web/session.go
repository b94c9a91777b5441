package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/barcodesheet/internal/core"
	"github.com/JonMunkholm/barcodesheet/internal/logging"
)

// SessionCookie is the name of the cookie carrying the session ID.
const SessionCookie = "barcode_session"

type sessionKey struct{}

// sessionMiddleware resolves the session cookie to a controller, creating a
// new session when the cookie is missing or expired. The cookie is reissued
// on every request so it expires together with the server-side session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		ctrl, created := s.service.Session(id)
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    ctrl.ID(),
			Path:     "/",
			HttpOnly: true,
			Secure:   s.cfg.Session.CookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.cfg.Session.TTL.Seconds()),
		})
		if created {
			logging.FromContext(r.Context()).Debug("session created", "session", ctrl.ID())
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, ctrl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// controllerFrom returns the session controller set by sessionMiddleware.
func controllerFrom(r *http.Request) *core.Controller {
	c, _ := r.Context().Value(sessionKey{}).(*core.Controller)
	return c
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vivu-app/journey-planner/internal/auth"
)

// NewAuthenticator returns a middleware that resolves the caller from a
// "Bearer" Authorization header, falling back to the session cookie named
// cookieName. Requests without a valid token are answered with 401 and never
// reach the next handler.
func NewAuthenticator(v auth.Verifier, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r, cookieName)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			uid, err := v.Verify(r.Context(), token)
			if err != nil {
				log.DebugContext(r.Context(), "token rejected", "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			annotateUser(r.Context(), uid)
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), uid)))
		})
	}
}

func bearerToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

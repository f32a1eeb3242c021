package middleware

import (
	"context"
	"net/http"
	"strings"
)

const sessionKey contextKey = "session"

// SessionHeader lets a client name its session explicitly.
const SessionHeader = "X-Session-ID"

// Session resolves the caller's session: the X-Session-ID header when set,
// otherwise the client IP.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := strings.TrimSpace(r.Header.Get(SessionHeader))
		if len(session) > 128 {
			session = session[:128]
		}
		if session == "" {
			session = "ip:" + clientIPForRateLimit(r)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func SessionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey).(string); ok {
		return v
	}
	return ""
}

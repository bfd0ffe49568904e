package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/jcabrera-io/wayfarer/internal/service"
)

type contextKey string

const callerContextKey contextKey = "caller"

// CallerFromContext extracts the authenticated caller's user ID from the
// request context. Returns "" if the request is unauthenticated.
func CallerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(callerContextKey).(string)
	return id
}

// RequireAuth protects routes requiring authentication. It reads a bearer
// token from the Authorization header, verifies it, and injects the caller's
// user ID into the request context. OPTIONS requests pass through untouched
// so CORS preflights are never challenged. The middleware never touches the
// database, and all verification failure kinds collapse to one 401 response.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Authorization failed.")
			return
		}

		userID, _, err := auth.VerifyToken(token)
		if err != nil {
			slog.Debug("token rejected", "error", err)
			writeMessage(w, http.StatusUnauthorized, "Authorization failed.")
			return
		}

		ctx := context.WithValue(r.Context(), callerContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORS sets cross-origin headers on every response and answers preflight
// requests directly.
func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests from clients that exceed the per-IP budget.
func RateLimit(tb *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !tb.Allow(host) {
			writeMessage(w, http.StatusTooManyRequests, "Too many requests.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets conservative browser security headers on every
// response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

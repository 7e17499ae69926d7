package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sungwon/paubox-connector/internal/metrics"
)

type contextKey string

const subjectKey contextKey = "subject"

// SubjectFromContext returns the authenticated token subject, or an empty
// string when the request was not authenticated.
func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey).(string); ok {
		return s
	}
	return ""
}

// JWTAuth returns an HTTP middleware that validates JWT Bearer tokens and
// stores the token subject in the request context. When the service has
// no signing key, requests pass through unauthenticated.
func JWTAuth(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !jwtService.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, `{"error":"authorization header required"}`)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				reject(w, `{"error":"invalid authorization format, expected Bearer <token>"}`)
				return
			}

			tokenStr := strings.TrimSpace(parts[1])
			if tokenStr == "" {
				reject(w, `{"error":"empty token"}`)
				return
			}

			claims, err := jwtService.ValidateToken(tokenStr)
			if err != nil {
				reject(w, `{"error":"invalid or expired token"}`)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, body string) {
	metrics.HTTPAuthFailuresTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(body + "\n"))
}

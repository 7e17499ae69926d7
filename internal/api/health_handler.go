package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// CredentialChecker verifies that the configured Paubox credentials are
// accepted by the API.
type CredentialChecker interface {
	CheckCredentials(ctx context.Context) error
}

const readinessTimeout = 5 * time.Second

// HealthzHandler handles GET /healthz.
// Always returns 200 OK with {"status":"ok"}.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler handles GET /readyz.
// Probes the Paubox API with the configured credentials.
// Returns 200 if accepted, 503 with Retry-After header otherwise.
func ReadyzHandler(checker CredentialChecker, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := checker.CheckCredentials(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			w.Header().Set("Retry-After", "30")
			respondError(w, http.StatusServiceUnavailable, "paubox api unavailable")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

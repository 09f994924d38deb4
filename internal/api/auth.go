package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

// authMiddleware gates every API route behind a bearer token check. When
// auth is disabled (local development) every request passes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authDisabled {
			next.ServeHTTP(w, r)
			return
		}
		if s.authToken == "" {
			slog.Error("Server.authMiddleware: no auth token configured and auth not disabled")
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Server authentication misconfigured"))
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			slog.Warn("Server.authMiddleware: unauthorized request", "path", r.URL.Path)
			writeJSONResponse(w, http.StatusUnauthorized, models.Error("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

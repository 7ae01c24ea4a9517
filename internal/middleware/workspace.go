package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"vidhik/internal/domain"
	"vidhik/internal/domain/services"
	"vidhik/internal/httputil"
)

// RequireWorkspace resolves the bearer token to a workspace and stores it in
// the request context. Requests without a live workspace get a 401.
func RequireWorkspace(registry services.WorkspaceRegistry, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing workspace token")
				return
			}

			ws, err := registry.Resolve(r.Context(), token)
			if err != nil {
				var unauthorized *domain.UnauthorizedError
				if errors.As(err, &unauthorized) {
					httputil.RespondError(w, http.StatusUnauthorized, unauthorized.Message)
					return
				}
				logger.Error("workspace resolve failed", "error", err, "path", r.URL.Path)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithWorkspace(r, ws))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"vidhik/internal/domain"
	"vidhik/internal/domain/services"
	"vidhik/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Domain errors carry their own status and user-facing message.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) {
			logger.Warn("gateway call failed", "operation", gwErr.Operation, "error", gwErr.Err)
		}
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	logger.Error("unhandled error", "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// sessionID parses the {id} path segment
func sessionID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidation("invalid session id %q", raw)
	}
	return id, nil
}

// workspaceController returns the workspace controller placed in the context by middleware.RequireWorkspace
func workspaceController(w http.ResponseWriter, r *http.Request) (services.Controller, bool) {
	ws := httputil.GetWorkspace(r)
	if ws == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "missing workspace token")
		return nil, false
	}
	return ws.Controller, true
}

// decodeBody parses a JSON body. Malformed input becomes a validation error,
// an oversized body keeps its *http.MaxBytesError.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return domain.NewValidation("Invalid request body")
	}
	return nil
}

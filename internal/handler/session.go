package handler

import (
	"log/slog"
	"net/http"

	"vidhik/internal/domain/models"
	"vidhik/internal/httputil"
)

// SessionHandler exposes the controller's mode, history and per-session actions
type SessionHandler struct {
	logger *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(logger *slog.Logger) *SessionHandler {
	return &SessionHandler{logger: logger}
}

type modeRequest struct {
	Mode models.Mode `json:"mode"`
}

type questionRequest struct {
	Question string `json:"question"`
}

// GetState returns the mode and active session id
// GET /api/state
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ctrl.State())
}

// SwitchMode changes the view
// PUT /api/mode
func (h *SessionHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	var req modeRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	state, err := ctrl.SwitchMode(r.Context(), req.Mode)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, state)
}

// NewSession clears the selection and enters the requested mode
// POST /api/sessions/new
func (h *SessionHandler) NewSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	req := modeRequest{Mode: models.ModeChat}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			handleError(w, h.logger, err)
			return
		}
	}

	state, err := ctrl.NewSession(r.Context(), req.Mode)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, state)
}

// ListSessions returns the labelled history, optionally filtered by document name
// GET /api/sessions?q=
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	items, err := ctrl.History(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, items)
}

// ClearHistory deletes every session in the workspace
// DELETE /api/sessions
func (h *SessionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	if err := ctrl.ClearHistory(r.Context()); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetActiveSession returns the selected session, or null
// GET /api/sessions/active
func (h *SessionHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	session, err := ctrl.ActiveSession(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// GetSession returns one session
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}
	id, err := sessionID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := ctrl.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// SelectSession makes a session active and switches to its mode
// POST /api/sessions/{id}/select
func (h *SessionHandler) SelectSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}
	id, err := sessionID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := ctrl.SelectSession(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// RequestAnalysis runs the one-time analysis of a chat session's document
// POST /api/sessions/{id}/analysis
func (h *SessionHandler) RequestAnalysis(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}
	id, err := sessionID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := ctrl.RequestAnalysis(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// AskQuestion appends a question and its answer to a chat session
// POST /api/sessions/{id}/messages
func (h *SessionHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}
	id, err := sessionID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req questionRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := ctrl.AskQuestion(r.Context(), id, req.Question)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

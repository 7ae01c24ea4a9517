package handler

import (
	"net/http"

	"vidhik/internal/httputil"
	"vidhik/internal/prompts"
)

// InfoHandler serves the static features and FAQ page
type InfoHandler struct {
	info   *prompts.Info
	models ModelsInfo
}

// ModelsInfo names the model behind each operation
type ModelsInfo struct {
	Analyze string `json:"analyze"`
	Answer  string `json:"answer"`
	Compare string `json:"compare"`
}

type infoResponse struct {
	*prompts.Info
	Models ModelsInfo `json:"models"`
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(info *prompts.Info, models ModelsInfo) *InfoHandler {
	return &InfoHandler{info: info, models: models}
}

// GetInfo returns features, FAQ and configured models
// GET /api/info
func (h *InfoHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, infoResponse{Info: h.info, Models: h.models})
}

package handler

import (
	"log/slog"
	"mime"
	"net/http"

	"vidhik/internal/config"
	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/httputil"
	"vidhik/internal/service/ingest"
)

// DocumentHandler ingests documents and serves the document index
type DocumentHandler struct {
	logger *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{logger: logger}
}

// documentRequest is either an encoded document or pasted text
type documentRequest struct {
	Name    string  `json:"name"`
	Content string  `json:"content"`
	Text    *string `json:"text,omitempty"`
}

type openDocumentRequest struct {
	Fingerprint string `json:"fingerprint"`
}

// toDocument builds a validated document from a JSON body
func (req documentRequest) toDocument() (models.Document, error) {
	if req.Text != nil {
		return ingest.FromText(*req.Text)
	}
	return ingest.FromDataURI(req.Name, req.Content)
}

// SelectDocument starts a chat session for an uploaded or pasted document.
// Accepts JSON {name, content} / {text} or a multipart form with a "file" part.
// POST /api/documents
func (h *DocumentHandler) SelectDocument(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	var (
		doc models.Document
		err error
	)
	if isMultipart(r) {
		doc, err = formDocument(w, r, "file")
	} else {
		var req documentRequest
		if err = decodeBody(w, r, &req); err == nil {
			doc, err = req.toDocument()
		}
	}
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := ctrl.SelectDocument(r.Context(), doc)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Debug("document selected", "session_id", session.ID, "name", doc.Name)
	httputil.RespondJSON(w, http.StatusCreated, session)
}

// ListDocuments returns the de-duplicated document index
// GET /api/documents?q=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	entries, err := ctrl.Documents(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}

// OpenDocument starts a new chat session for a document from the index
// POST /api/documents/open
func (h *DocumentHandler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	var req openDocumentRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if req.Fingerprint == "" {
		handleError(w, h.logger, domain.NewValidation("fingerprint is required"))
		return
	}

	session, err := ctrl.OpenDocument(r.Context(), req.Fingerprint)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, session)
}

// HealthCheck is a simple health check endpoint
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseForm reads a multipart body once, capped at config.MaxRequestBodyBytes
func parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)
	if err := r.ParseMultipartForm(config.MaxDocumentBytes); err != nil {
		return domain.NewValidation("Failed to parse multipart form")
	}
	return nil
}

// formDocument ingests the named file part of a multipart request
func formDocument(w http.ResponseWriter, r *http.Request, field string) (models.Document, error) {
	if err := parseForm(w, r); err != nil {
		return models.Document{}, err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return models.Document{}, domain.NewValidation("Please upload a file in the %q field.", field)
	}
	defer file.Close()

	return ingest.FromUpload(header.Filename, header.Header.Get("Content-Type"), file)
}

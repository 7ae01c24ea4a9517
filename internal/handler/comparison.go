package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/httputil"
)

// ComparisonHandler runs document comparisons
type ComparisonHandler struct {
	logger *slog.Logger
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(logger *slog.Logger) *ComparisonHandler {
	return &ComparisonHandler{logger: logger}
}

type compareRequest struct {
	DocumentA *documentRequest `json:"documentA"`
	DocumentB *documentRequest `json:"documentB"`
}

// Compare compares two documents and records a compare session on success.
// Accepts JSON {documentA, documentB} or a multipart form with "file_a" and "file_b".
// POST /api/comparisons
func (h *ComparisonHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := workspaceController(w, r)
	if !ok {
		return
	}

	docA, docB, err := h.documents(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	session, err := ctrl.Compare(r.Context(), docA, docB)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, session)
}

func (h *ComparisonHandler) documents(w http.ResponseWriter, r *http.Request) (models.Document, models.Document, error) {
	var a, b models.Document

	if isMultipart(r) {
		var err error
		if a, err = formDocument(w, r, "file_a"); err != nil {
			return a, b, labelled("document A", err)
		}
		if b, err = formDocument(w, r, "file_b"); err != nil {
			return a, b, labelled("document B", err)
		}
		return a, b, nil
	}

	var req compareRequest
	if err := decodeBody(w, r, &req); err != nil {
		return a, b, err
	}
	if req.DocumentA == nil || req.DocumentB == nil {
		return a, b, domain.NewValidation("Please upload both documents to compare.")
	}

	var err error
	if a, err = req.DocumentA.toDocument(); err != nil {
		return a, b, labelled("document A", err)
	}
	if b, err = req.DocumentB.toDocument(); err != nil {
		return a, b, labelled("document B", err)
	}
	return a, b, nil
}

// labelled prefixes validation messages with which document failed
func labelled(which string, err error) error {
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		return domain.NewValidation("%s: %s", which, invalid.Message)
	}
	return err
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/services"
	"vidhik/internal/httputil"
	"vidhik/internal/repository/memory"
	"vidhik/internal/service/controller"
	"vidhik/internal/service/ingest"
)

type stubGateway struct {
	fail bool
}

func (g *stubGateway) Analyze(_ context.Context, text string) (*models.Analysis, error) {
	if g.fail {
		return nil, domain.NewGatewayError("analyze", "Failed to analyze the document.", errors.New("quota exceeded"))
	}
	return &models.Analysis{
		Summary:            "## Summary\n" + text,
		Jargon:             []models.JargonTerm{},
		SuggestedQuestions: []string{"Who pays?"},
		Obligations:        []models.Obligation{},
		Risks:              []models.Risk{{Clause: "Penalty", Level: models.RiskMedium, Explanation: "Fee"}},
	}, nil
}

func (g *stubGateway) Answer(_ context.Context, _, question string, _ *models.Analysis) (string, error) {
	return "Answer to: " + question, nil
}

func (g *stubGateway) Compare(_ context.Context, _, _ string) (*models.Comparison, error) {
	if g.fail {
		return nil, domain.NewGatewayError("compare", "Failed to compare the documents.", errors.New("quota exceeded"))
	}
	return &models.Comparison{Summary: "One clause changed."}, nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newWorkspace(gw services.Gateway) *services.Workspace {
	return &services.Workspace{
		ID:         "ws-test",
		Controller: controller.NewController(memory.NewHistoryStore(), gw, discard),
		CreatedAt:  time.Now(),
	}
}

// do runs h against a request bound to ws, with an optional {id} path value
func do(h http.HandlerFunc, ws *services.Workspace, method, target string, body io.Reader, id int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != 0 {
		req.SetPathValue("id", strconv.FormatInt(id, 10))
	}
	if ws != nil {
		req = httputil.WithWorkspace(req, ws)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func selectText(t *testing.T, ws *services.Workspace, text string) int64 {
	t.Helper()
	rec := do(NewDocumentHandler(discard).SelectDocument, ws, http.MethodPost, "/api/documents",
		jsonBody(t, map[string]string{"text": text}), 0)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(decode(t, rec)["id"].(float64))
}

func TestSelectDocument_PastedText(t *testing.T) {
	ws := newWorkspace(&stubGateway{})

	rec := do(NewDocumentHandler(discard).SelectDocument, ws, http.MethodPost, "/api/documents",
		jsonBody(t, map[string]string{"text": "The tenant shall pay rent."}), 0)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "chat", body["type"])
	assert.Nil(t, body["analysis"])
	assert.Equal(t, ingest.PastedName, body["document"].(map[string]interface{})["name"])
}

func TestSelectDocument_BlankTextRejected(t *testing.T) {
	ws := newWorkspace(&stubGateway{})

	rec := do(NewDocumentHandler(discard).SelectDocument, ws, http.MethodPost, "/api/documents",
		jsonBody(t, map[string]string{"text": "   "}), 0)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please paste some text to analyze.", decode(t, rec)["error"])
}

func TestSelectDocument_Multipart(t *testing.T) {
	ws := newWorkspace(&stubGateway{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "nda.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Confidential information stays confidential."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = httputil.WithWorkspace(req, ws)
	rec := httptest.NewRecorder()
	NewDocumentHandler(discard).SelectDocument(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode(t, rec)["document"].(map[string]interface{})
	assert.Equal(t, "nda.txt", doc["name"])
	assert.True(t, strings.HasPrefix(doc["content"].(string), "data:text/plain;base64,"))
}

func TestSelectDocument_RequiresWorkspace(t *testing.T) {
	rec := do(NewDocumentHandler(discard).SelectDocument, nil, http.MethodPost, "/api/documents",
		jsonBody(t, map[string]string{"text": "x"}), 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalysisThenQuestion(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	sessions := NewSessionHandler(discard)
	id := selectText(t, ws, "Rent is due on the 5th.")

	rec := do(sessions.RequestAnalysis, ws, http.MethodPost, "/api/sessions/x/analysis", nil, id)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	analysis := decode(t, rec)["analysis"].(map[string]interface{})
	assert.Contains(t, analysis["summary"], "Rent is due")

	rec = do(sessions.RequestAnalysis, ws, http.MethodPost, "/api/sessions/x/analysis", nil, id)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(sessions.AskQuestion, ws, http.MethodPost, "/api/sessions/x/messages",
		jsonBody(t, map[string]string{"question": "When is rent due?"}), id)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	messages := decode(t, rec)["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "Answer to: When is rent due?", messages[1].(map[string]interface{})["text"])
}

func TestRequestAnalysis_GatewayFailure(t *testing.T) {
	ws := newWorkspace(&stubGateway{fail: true})
	id := selectText(t, ws, "Some clause.")

	rec := do(NewSessionHandler(discard).RequestAnalysis, ws, http.MethodPost, "/api/sessions/x/analysis", nil, id)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, strings.HasPrefix(decode(t, rec)["error"].(string), "Failed to analyze the document."))
}

func TestGetSession_NotFoundAndBadID(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	sessions := NewSessionHandler(discard)

	rec := do(sessions.GetSession, ws, http.MethodGet, "/api/sessions/42", nil, 42)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
	req.SetPathValue("id", "abc")
	req = httputil.WithWorkspace(req, ws)
	bad := httptest.NewRecorder()
	sessions.GetSession(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestCompare_CreatesSessionOnlyOnSuccess(t *testing.T) {
	doc := func(name, text string) map[string]string {
		return map[string]string{"name": name, "content": ingest.EncodeDataURI("text/plain", []byte(text))}
	}
	body := map[string]interface{}{"documentA": doc("v1.txt", "old"), "documentB": doc("v2.txt", "new")}

	failing := newWorkspace(&stubGateway{fail: true})
	rec := do(NewComparisonHandler(discard).Compare, failing, http.MethodPost, "/api/comparisons", jsonBody(t, body), 0)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	rec = do(NewSessionHandler(discard).ListSessions, failing, http.MethodGet, "/api/sessions", nil, 0)
	assert.JSONEq(t, "[]", rec.Body.String())

	ws := newWorkspace(&stubGateway{})
	rec = do(NewComparisonHandler(discard).Compare, ws, http.MethodPost, "/api/comparisons", jsonBody(t, body), 0)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "compare", decode(t, rec)["type"])

	rec = do(NewSessionHandler(discard).GetState, ws, http.MethodGet, "/api/state", nil, 0)
	assert.Equal(t, "compare", decode(t, rec)["mode"])
}

func TestCompare_MissingDocument(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	rec := do(NewComparisonHandler(discard).Compare, ws, http.MethodPost, "/api/comparisons",
		jsonBody(t, map[string]interface{}{"documentA": map[string]string{"text": "only one"}}), 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryAndDocuments(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	sessions := NewSessionHandler(discard)
	documents := NewDocumentHandler(discard)

	id := selectText(t, ws, "Lease terms.")
	selectText(t, ws, "Lease terms.")

	rec := do(sessions.ListSessions, ws, http.MethodGet, "/api/sessions?q=pasted", nil, 0)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Awaiting analysis...", items[0]["excerpt"])
	assert.Equal(t, true, items[0]["active"])

	rec = do(documents.ListDocuments, ws, http.MethodGet, "/api/documents", nil, 0)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)

	rec = do(documents.OpenDocument, ws, http.MethodPost, "/api/documents/open",
		jsonBody(t, map[string]string{"fingerprint": entries[0]["fingerprint"].(string)}), 0)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, float64(id), decode(t, rec)["id"])

	rec = do(documents.OpenDocument, ws, http.MethodPost, "/api/documents/open",
		jsonBody(t, map[string]string{"fingerprint": "unknown"}), 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(sessions.ClearHistory, ws, http.MethodDelete, "/api/sessions", nil, 0)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(sessions.GetActiveSession, ws, http.MethodGet, "/api/sessions/active", nil, 0)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestSwitchMode(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	sessions := NewSessionHandler(discard)
	selectText(t, ws, "Clause.")

	rec := do(sessions.SwitchMode, ws, http.MethodPut, "/api/mode", jsonBody(t, map[string]string{"mode": "info"}), 0)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode(t, rec)
	assert.Equal(t, "info", state["mode"])
	assert.Nil(t, state["active_session_id"])

	rec = do(sessions.SwitchMode, ws, http.MethodPut, "/api/mode", jsonBody(t, map[string]string{"mode": "bogus"}), 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(sessions.NewSession, ws, http.MethodPost, "/api/sessions/new", jsonBody(t, map[string]string{"mode": "compare"}), 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "compare", decode(t, rec)["mode"])
}

func TestParseJSON_RejectsUnknownFields(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	rec := do(NewSessionHandler(discard).SwitchMode, ws, http.MethodPut, "/api/mode",
		strings.NewReader(`{"mode":"chat","extra":1}`), 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["error"])
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCompare_InvalidDocumentIsNamed(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	body := map[string]interface{}{
		"documentA": map[string]string{"text": "Rent is fixed."},
		"documentB": map[string]string{"name": "", "content": "Rent rises yearly."},
	}

	rec := do(NewComparisonHandler(discard).Compare, ws, http.MethodPost, "/api/comparisons", jsonBody(t, body), 0)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(decode(t, rec)["error"].(string), "document B: "), rec.Body.String())
}

func TestSearchQueryTooLong(t *testing.T) {
	ws := newWorkspace(&stubGateway{})
	q := strings.Repeat("a", 256)

	rec := do(NewSessionHandler(discard).ListSessions, ws, http.MethodGet, "/api/sessions?q="+q, nil, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(NewDocumentHandler(discard).ListDocuments, ws, http.MethodGet, "/api/documents?q="+q, nil, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

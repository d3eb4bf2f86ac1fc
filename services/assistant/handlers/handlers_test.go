// Copyright (C) 2026 marcin-program
// Tests for the HTTP handlers

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Stub Responder
// =============================================================================

// stubResponder implements services.Responder with canned results.
type stubResponder struct {
	session  *datatypes.Session
	history  []datatypes.Session
	err      error
	lastAsk  string
	askCalls int
}

func (s *stubResponder) ProcessRequest(ctx context.Context, question string) *datatypes.Session {
	s.askCalls++
	s.lastAsk = question
	return s.session
}

func (s *stubResponder) GetHistory(ctx context.Context) ([]datatypes.Session, error) {
	return s.history, s.err
}

func approvedSession(question string) *datatypes.Session {
	session := datatypes.NewSession(question)
	session.AppendLog(datatypes.RoleGenerator, "answer")
	session.Finalize("answer", datatypes.OutcomeApproved, 1)
	return session
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

// =============================================================================
// HandleAsk Tests
// =============================================================================

func TestHandleAsk_Success(t *testing.T) {
	stub := &stubResponder{session: approvedSession("How much is the dog food?")}
	router := gin.New()
	router.POST("/v1/ask", HandleAsk(stub))

	body := `{"question": "How much is the dog food?"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.askCalls)
	assert.Equal(t, "How much is the dog food?", stub.lastAsk)

	var response datatypes.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.RequestID, "request id is generated when absent")
	require.NotNil(t, response.Session)
	assert.Equal(t, datatypes.OutcomeApproved, response.Session.Outcome)
}

func TestHandleAsk_InvalidBody(t *testing.T) {
	stub := &stubResponder{session: approvedSession("q")}
	router := gin.New()
	router.POST("/v1/ask", HandleAsk(stub))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/ask", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, stub.askCalls)
}

func TestHandleAsk_MissingQuestion(t *testing.T) {
	stub := &stubResponder{session: approvedSession("q")}
	router := gin.New()
	router.POST("/v1/ask", HandleAsk(stub))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/ask", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, stub.askCalls)
}

func TestHandleAsk_QuestionTooLarge(t *testing.T) {
	stub := &stubResponder{session: approvedSession("q")}
	router := gin.New()
	router.POST("/v1/ask", HandleAsk(stub))

	big, err := json.Marshal(map[string]string{
		"question": strings.Repeat("a", datatypes.MaxQuestionBytes+1),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/ask", strings.NewReader(string(big)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Session Handler Tests
// =============================================================================

func TestListSessions_Success(t *testing.T) {
	stub := &stubResponder{history: []datatypes.Session{*approvedSession("q1"), *approvedSession("q2")}}
	router := gin.New()
	router.GET("/v1/sessions", ListSessions(stub))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/sessions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Sessions []datatypes.Session `json:"sessions"`
		Count    int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	assert.Len(t, response.Sessions, 2)
}

func TestGetSession_NotFound(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sessions := store.NewSessionStore(db)

	router := gin.New()
	router.GET("/v1/sessions/:sessionId", GetSession(sessions))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/sessions/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSession_Success(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sessions := store.NewSessionStore(db)

	stored := approvedSession("q")
	require.NoError(t, sessions.Append(context.Background(), stored))

	router := gin.New()
	router.GET("/v1/sessions/:sessionId", GetSession(sessions))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/sessions/"+stored.ID, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got datatypes.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, stored.ID, got.ID)
}

// =============================================================================
// Catalog Handler Tests
// =============================================================================

func newCatalogRouter(t *testing.T) (*gin.Engine, *store.CatalogStore) {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	catalog := store.NewCatalogStore(db)

	router := gin.New()
	router.GET("/v1/catalog", ListCatalog(catalog))
	router.POST("/v1/catalog/items", CreateCatalogItem(catalog))
	return router, catalog
}

func TestCreateCatalogItem_Success(t *testing.T) {
	router, catalog := newCatalogRouter(t)

	body := `{"name": "Royal Canin Maxi Adult 15kg", "price": "249.99", "category": "Dog Food"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/catalog/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	items, err := catalog.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 24999, items[0].PriceCents)
}

func TestCreateCatalogItem_BadPrice(t *testing.T) {
	router, _ := newCatalogRouter(t)

	body := `{"name": "x", "price": "cheap", "category": "y"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/catalog/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCatalogItem_MissingName(t *testing.T) {
	router, _ := newCatalogRouter(t)

	body := `{"price": "1.00", "category": "y"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/catalog/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCatalog_Empty(t *testing.T) {
	router, _ := newCatalogRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/catalog", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Zero(t, response.Count)
}

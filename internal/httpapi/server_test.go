package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinchivii/detonation-scanner/internal/providers"
	"github.com/vinchivii/detonation-scanner/internal/scan"
	"github.com/vinchivii/detonation-scanner/internal/universe"
)

func mockServer(t *testing.T) *Server {
	t.Helper()
	reg := providers.NewRegistry()
	mock := providers.NewMockProvider()
	reg.RegisterQuotes(mock)
	reg.RegisterNews(mock)
	reg.RegisterFundamentals(mock)

	pipeline := scan.NewPipeline(universe.NewSelector(nil), reg, scan.Options{})
	return NewServer(DefaultServerConfig(), pipeline, nil, func() map[string]string {
		return map[string]string{"mock": "closed"}
	})
}

func TestServer_ScanEndpoint(t *testing.T) {
	s := mockServer(t)

	body := `{"mode":"momentum","filters":{"market_cap":"any","sectors":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp scanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Results)
	assert.NotEmpty(t, resp.Summary.ScanID)
	assert.Equal(t, len(resp.Results), resp.Summary.Results)
}

func TestServer_ScanRejectsBadJSON(t *testing.T) {
	s := mockServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ScanWithoutQuoteProviders(t *testing.T) {
	pipeline := scan.NewPipeline(universe.NewSelector(nil), providers.NewRegistry(), scan.Options{})
	s := NewServer(DefaultServerConfig(), pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader(`{"filters":{}}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Health(t *testing.T) {
	s := mockServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Contains(t, health, "providers")
}

func TestServer_StoreRoutesAbsentWithoutStore(t *testing.T) {
	s := mockServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

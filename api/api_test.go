package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stakestar/nodelyzer/config"
	"github.com/stakestar/nodelyzer/countries"
	"github.com/stakestar/nodelyzer/db"
	"github.com/stakestar/nodelyzer/engine"
	"github.com/stakestar/nodelyzer/ingest"
)

func newTestRouter(t *testing.T, rateLimit int64) *gin.Engine {
	t.Helper()

	list, err := countries.Default()
	require.NoError(t, err)

	store, err := db.NewBoltDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.ServerConfig{
		RateLimit:    rateLimit,
		RatePeriod:   time.Minute,
		CacheTTL:     time.Minute,
		MaxBodyBytes: 1 << 20,
	}
	a := New(zap.NewNop(), cfg, engine.New(engine.DefaultThresholds(), list), ingest.NewParser(list), store, nil)
	return a.Router()
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestSimulateFailure(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(t, router, http.MethodPost, "/api/simulate-failure", `{
		"nodes": [{"country": "US", "stake": 100}, {"country": "FR", "stake": 100}, {"country": "DE", "stake": 100}],
		"scenario": "region",
		"targets": ["us"]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res engine.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 3, res.TotalNodes)
	assert.Equal(t, 1, res.FailedNodes)
	assert.Equal(t, "33.33%", res.ConnectivityLoss)
	assert.Equal(t, "region", res.Scenario)
	assert.Nil(t, res.Suggestions)
}

func TestOptimize(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(t, router, http.MethodPost, "/api/optimize", `{
		"nodes": [
			{"country": "US", "stake": 50}, {"country": "DE", "stake": 20}, {"country": "FR", "stake": 15},
			{"country": "JP", "stake": 10}, {"country": "BR", "stake": 5}
		],
		"scenario": "51"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res engine.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Nakamoto)
	require.Len(t, res.Suggestions, 1)
	assert.Contains(t, res.Suggestions[0], "High 51% attack risk")
}

func TestCompute_BadRequests(t *testing.T) {
	router := newTestRouter(t, 100)

	tests := []struct {
		name    string
		path    string
		body    string
		wantErr string
	}{
		{
			name:    "no nodes",
			path:    "/api/simulate-failure",
			body:    `{"nodes": [], "scenario": "region"}`,
			wantErr: "no nodes provided",
		},
		{
			name:    "cloud without providers",
			path:    "/api/optimize",
			body:    `{"nodes": [{"country": "US"}], "scenario": "cloud", "targets": ["aws"]}`,
			wantErr: "node data lacks provider information for cloud scenario",
		},
		{
			name:    "negative stake",
			path:    "/api/optimize",
			body:    `{"nodes": [{"country": "US", "stake": -1}]}`,
			wantErr: "node 0 has an invalid stake",
		},
		{
			name:    "malformed body",
			path:    "/api/simulate-failure",
			body:    `{"nodes": [`,
			wantErr: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w))
		})
	}
}

func TestUnknownScenarioIsNotAnError(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(t, router, http.MethodPost, "/api/optimize", `{"nodes": [{"country": "US"}], "scenario": "asteroid", "targets": ["us"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res engine.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "asteroid", res.Scenario)
	assert.Equal(t, 0, res.FailedNodes)
}

func TestIngest(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(t, router, http.MethodPost, "/api/ingest/ethereum", `[{"country": "Germany"}, {"country": "France"}]`)
	require.Equal(t, http.StatusOK, w.Code)

	var dump ingest.Dump
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dump))
	assert.Equal(t, "ethereum", dump.Network)
	require.Len(t, dump.Nodes, 2)
	assert.Equal(t, "de", dump.Nodes[0].Country)

	w = do(t, router, http.MethodPost, "/api/ingest/bitcoin", `{"nodes": 3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysesLifecycle(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(t, router, http.MethodPost, "/api/analyses", `{
		"name": "eu outage",
		"network": "solana",
		"nodes": [{"country": "DE"}, {"country": "DE"}, {"country": "FR"}, {"country": "US"}],
		"scenario": "region",
		"targets": ["de"]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created db.AnalysisRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, "50.00%", created.Metrics.ConnectivityLoss)
	assert.Equal(t, []string{"de"}, created.Targets)
	assert.NotEmpty(t, created.Suggestions)

	w = do(t, router, http.MethodGet, "/api/analyses/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got db.AnalysisRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "eu outage", got.Name)
	assert.Equal(t, created.Suggestions, got.Suggestions)

	w = do(t, router, http.MethodGet, "/api/analyses?network=solana", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Analyses []db.AnalysisRecord `json:"analyses"`
		Metadata struct {
			Count int `json:"count"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Metadata.Count)

	w = do(t, router, http.MethodPost, "/api/analyses", `{
		"name": "us outage",
		"network": "solana",
		"nodes": [{"country": "DE"}, {"country": "US"}],
		"scenario": "region",
		"targets": ["us"]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, http.MethodGet, "/api/analyses?network=solana", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Metadata.Count)
	assert.Equal(t, "us outage", list.Analyses[0].Name)

	w = do(t, router, http.MethodPatch, "/api/analyses/1", `{"name": "eu outage v2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/analyses/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "eu outage v2", got.Name)

	w = do(t, router, http.MethodDelete, "/api/analyses/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/api/analyses/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/analyses?network=solana", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Metadata.Count)

	w = do(t, router, http.MethodDelete, "/api/analyses/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyses_BadInput(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(t, router, http.MethodPost, "/api/analyses", `{"nodes": [{"country": "US"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/analyses/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/analyses/7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPatch, "/api/analyses/7", `{"name": "x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPatch, "/api/analyses/7", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, 1)

	body := `{"nodes": [{"country": "US"}]}`
	w := do(t, router, http.MethodPost, "/api/optimize", body)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/optimize", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPlan(t *testing.T, body string) (*httptest.ResponseRecorder, PlanResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	planHandler(rec, req)

	var resp PlanResponse
	if rec.Code == http.StatusOK || rec.Code == http.StatusBadRequest {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestPlanHandler(t *testing.T) {
	body := `{
		"start": {"x": 0, "y": 0},
		"goal": {"x": 2, "y": 0},
		"obstacles": [],
		"bounds": {"min": -5, "max": 5},
		"seed": 1
	}`
	rec, resp := postPlan(t, body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Path)
	assert.Equal(t, Point{X: 2, Y: 0}, resp.Path[0])
	assert.Equal(t, Point{X: 0, Y: 0}, resp.Path[len(resp.Path)-1])
	assert.Greater(t, resp.PathLength, 0.0)
	assert.Greater(t, resp.Iterations, 0)

	// The run must now be visible to the tree endpoint
	treeReq := httptest.NewRequest(http.MethodGet, "/getTreeLines", nil)
	treeRec := httptest.NewRecorder()
	getTreeLinesHandler(treeRec, treeReq)

	require.Equal(t, http.StatusOK, treeRec.Code)
	var tree struct {
		Success  bool      `json:"success"`
		Lines    [][]Point `json:"lines"`
		NumNodes int       `json:"numNodes"`
	}
	require.NoError(t, json.Unmarshal(treeRec.Body.Bytes(), &tree))
	assert.True(t, tree.Success)
	assert.Equal(t, tree.NumNodes-1, len(tree.Lines)) // every node but the root has a segment
}

func TestPlanHandlerConfigOverride(t *testing.T) {
	// An unreachable goal with a tiny budget must come back as a clean
	// "not found", not an error status.
	body := `{
		"start": {"x": 0, "y": 0},
		"goal": {"x": 0, "y": 3},
		"obstacles": [{"x": 0, "y": 1.5, "radius": 1}],
		"bounds": {"min": -5, "max": 5},
		"config": {"maxIterations": 50, "goalSampleRate": 100},
		"seed": 2
	}`
	rec, resp := postPlan(t, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, 50, resp.Iterations)
}

func TestPlanHandlerRejectsInvalidConfig(t *testing.T) {
	rec, resp := postPlan(t, `{"config": {"expandDistance": -1}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "expandDistance")
}

func TestPlanHandlerRejectsBadBody(t *testing.T) {
	rec, _ := postPlan(t, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandlerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/plan", nil)
	rec := httptest.NewRecorder()
	planHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetTreeLinesBeforeAnyPlan(t *testing.T) {
	stateMutex.Lock()
	lastResult = nil
	stateMutex.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/getTreeLines", nil)
	rec := httptest.NewRecorder()
	getTreeLinesHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ready", health["status"])
}

func TestCorsMiddleware(t *testing.T) {
	handler := corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodOptions, "/plan", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code) // preflight short-circuits

	req = httptest.NewRequest(http.MethodPost, "/plan", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

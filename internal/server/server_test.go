package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrt-planner/internal/config"
	"rrt-planner/obstacles"
	"rrt-planner/planner"
)

// enclosure walls off a 40x40 cell around (300,240) with 20-unit thick walls.
var enclosure = []obstacles.Polygon{
	obstacles.Rect(260, 200, 340, 220),
	obstacles.Rect(260, 260, 340, 280),
	obstacles.Rect(260, 200, 280, 280),
	obstacles.Rect(320, 200, 340, 280),
}

func newTestServer(t *testing.T, polygons []obstacles.Polygon) (*Server, *httptest.Server) {
	t.Helper()
	scenario := config.Default()
	scenario.Server.MaxSessions = 8
	s := New(scenario, polygons, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postPlan(t *testing.T, ts *httptest.Server, body map[string]any) (int, PlanResponse, string) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/plan", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out PlanResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out, string(raw)
}

func smallPlan(seed int64) map[string]any {
	return map[string]any{
		"start":      map[string]float64{"x": 10, "y": 10},
		"goal":       map[string]float64{"x": 100, "y": 100},
		"maxNodes":   3000,
		"epsilon":    5,
		"randomSeed": seed,
	}
}

func TestPlanHandler_FindsPath(t *testing.T) {
	s, ts := newTestServer(t, nil)

	status, resp, raw := postPlan(t, ts, smallPlan(1))
	require.Equal(t, http.StatusOK, status, raw)

	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Path)
	assert.Equal(t, planner.Point{X: 10, Y: 10}, resp.Path[0])
	assert.Equal(t, planner.Point{X: 100, Y: 100}, resp.Path[len(resp.Path)-1])
	assert.InDelta(t, planner.PathLength(resp.Path), resp.PathLength, 1e-9)
	assert.Less(t, resp.NumNodes, 3000)
	assert.Empty(t, resp.SmoothedPath)

	session, err := s.Sessions().Get(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, resp.NumNodes, session.Tree.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().Sessions.WithLabelValues("reached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().Requests.WithLabelValues("plan", "200")))
}

func TestPlanHandler_Deterministic(t *testing.T) {
	_, ts := newTestServer(t, enclosure)

	_, first, _ := postPlan(t, ts, smallPlan(9))
	_, second, _ := postPlan(t, ts, smallPlan(9))
	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.NumNodes, second.NumNodes)
}

func TestPlanHandler_Errors(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/plan")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/plan", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := smallPlan(1)
	bad["epsilon"] = -1
	status, _, raw := postPlan(t, ts, bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, raw, "invalid configuration")

	outside := smallPlan(1)
	outside["goal"] = map[string]float64{"x": 9999, "y": 1}
	status, _, _ = postPlan(t, ts, outside)
	assert.Equal(t, http.StatusBadRequest, status)

	missing := smallPlan(1)
	missing["retainFrom"] = "does-not-exist"
	status, _, _ = postPlan(t, ts, missing)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPlanHandler_BudgetLimits(t *testing.T) {
	scenario := config.Default()
	scenario.Server.MaxNodes = 1000
	scenario.Server.MaxAttempts = 2000
	s := New(scenario, enclosure, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	tooMany := smallPlan(1)
	tooMany["maxNodes"] = 1001
	status, _, raw := postPlan(t, ts, tooMany)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, raw, "invalid configuration")
	assert.Contains(t, raw, "server limit of 1000")

	tooLong := smallPlan(1)
	tooLong["maxNodes"] = 500
	tooLong["maxAttempts"] = 2001
	status, _, _ = postPlan(t, ts, tooLong)
	assert.Equal(t, http.StatusBadRequest, status)

	// unlimited attempts against an enclosed goal stop at the server ceiling
	enclosed := smallPlan(1)
	enclosed["goal"] = map[string]float64{"x": 300, "y": 240}
	enclosed["maxNodes"] = 1000
	status, resp, raw := postPlan(t, ts, enclosed)
	require.Equal(t, http.StatusOK, status, raw)
	assert.False(t, resp.Success)
	assert.LessOrEqual(t, resp.Iterations, 2000)

	session, err := s.sessions.Get(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2000, session.Config.MaxAttempts)
}

func TestPlanHandler_RetainFrom(t *testing.T) {
	_, ts := newTestServer(t, enclosure)

	body := map[string]any{
		"start":      map[string]float64{"x": 50, "y": 50},
		"goal":       map[string]float64{"x": 300, "y": 240},
		"maxNodes":   200,
		"epsilon":    7,
		"randomSeed": 4,
	}
	status, first, raw := postPlan(t, ts, body)
	require.Equal(t, http.StatusOK, status, raw)
	assert.False(t, first.Success)
	assert.Equal(t, 200, first.NumNodes)
	assert.Empty(t, first.Path)

	body["maxNodes"] = 400
	body["retainFrom"] = first.SessionID
	status, second, raw := postPlan(t, ts, body)
	require.Equal(t, http.StatusOK, status, raw)
	assert.False(t, second.Success)
	assert.Equal(t, 400, second.NumNodes)

	// a budget smaller than the retained tree is rejected
	body["maxNodes"] = 100
	status, _, _ = postPlan(t, ts, body)
	assert.Equal(t, http.StatusBadRequest, status)

	// the retained tree is rooted at the old start
	body["maxNodes"] = 400
	body["start"] = map[string]float64{"x": 60, "y": 60}
	status, _, _ = postPlan(t, ts, body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPlanHandler_Smooth(t *testing.T) {
	// wall with a gap at the top forces a detour
	wall := []obstacles.Polygon{obstacles.Rect(200, 0, 220, 380)}
	_, ts := newTestServer(t, wall)

	body := map[string]any{
		"start":      map[string]float64{"x": 50, "y": 50},
		"goal":       map[string]float64{"x": 400, "y": 50},
		"maxNodes":   20000,
		"epsilon":    7,
		"randomSeed": 2,
		"smooth":     true,
	}
	status, resp, raw := postPlan(t, ts, body)
	require.Equal(t, http.StatusOK, status, raw)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.SmoothedPath)

	assert.Equal(t, resp.Path[0], resp.SmoothedPath[0])
	assert.Equal(t, resp.Path[len(resp.Path)-1], resp.SmoothedPath[len(resp.SmoothedPath)-1])
	assert.LessOrEqual(t, len(resp.SmoothedPath), len(resp.Path))
	assert.LessOrEqual(t, resp.SmoothedLength, resp.PathLength+1e-9)

	field := obstacles.NewField(wall)
	for i := 1; i < len(resp.SmoothedPath); i++ {
		assert.True(t, field.SegmentFree(resp.SmoothedPath[i-1], resp.SmoothedPath[i]))
	}
}

func TestPlanHandler_RequestObstaclesAreMerged(t *testing.T) {
	s, ts := newTestServer(t, enclosure[:1])

	body := smallPlan(1)
	body["obstacles"] = []obstacles.Polygon{obstacles.Rect(40, 40, 60, 60)}
	status, resp, raw := postPlan(t, ts, body)
	require.Equal(t, http.StatusOK, status, raw)

	session, err := s.Sessions().Get(resp.SessionID)
	require.NoError(t, err)
	assert.Len(t, session.Obstacles, 2)
}

func TestLinesHandler(t *testing.T) {
	_, ts := newTestServer(t, nil)
	_, plan, _ := postPlan(t, ts, smallPlan(5))

	resp, err := http.Get(ts.URL + "/sessions/" + plan.SessionID + "/lines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success  bool               `json:"success"`
		Lines    [][2]planner.Point `json:"lines"`
		NumNodes int                `json:"numNodes"`
		NumEdges int                `json:"numEdges"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, plan.NumNodes, body.NumNodes)
	assert.Equal(t, body.NumNodes-1, body.NumEdges)
	assert.Len(t, body.Lines, body.NumEdges)
	for _, line := range body.Lines {
		assert.LessOrEqual(t, line[0].Distance(line[1]), 5+1e-9)
	}

	resp2, err := http.Get(ts.URL + "/sessions/unknown/lines")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestSessionHandler(t *testing.T) {
	_, ts := newTestServer(t, nil)
	_, plan, _ := postPlan(t, ts, smallPlan(6))

	resp, err := http.Get(ts.URL + "/sessions/" + plan.SessionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		SessionID string         `json:"sessionId"`
		Result    planner.Result `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, plan.SessionID, body.SessionID)
	assert.Len(t, body.Result.Tree, plan.NumNodes)
	assert.Len(t, body.Result.Parent, plan.NumNodes)
	assert.Equal(t, plan.Path, body.Result.Path)

	tree, err := planner.TreeFromArrays(body.Result.Tree, body.Result.Parent)
	require.NoError(t, err)
	path, err := planner.ExtractPath(tree, body.Result.GoalIndex)
	require.NoError(t, err)
	assert.Equal(t, plan.Path, path)
}

func TestHealthAndCORS(t *testing.T) {
	_, ts := newTestServer(t, enclosure)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ready", body["status"])
	assert.EqualValues(t, len(enclosure), body["obstacles"])

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/plan", nil)
	require.NoError(t, err)
	pre, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	pre.Body.Close()
	assert.Equal(t, http.StatusOK, pre.StatusCode)
	assert.Contains(t, pre.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	postPlan(t, ts, smallPlan(1))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(raw), "rrt_sessions_total")
	assert.Contains(t, string(raw), "rrt_nodes_accepted_total")
	assert.Contains(t, string(raw), "go_goroutines")
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrt-planner/planner"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPlanCommand_OpenMap(t *testing.T) {
	out, err := runCLI(t, "plan",
		"--nodes", "5000", "--epsilon", "7",
		"--init", "50,50", "--goal", "540,380",
		"--bias-percentage", "30", "--seed", "1", "--tree",
	)
	require.NoError(t, err)

	var result planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.GoalReached)
	assert.Less(t, result.Nodes, 5000)
	require.NotEmpty(t, result.Path)
	assert.Equal(t, planner.Point{X: 50, Y: 50}, result.Path[0])
	assert.Equal(t, planner.Point{X: 540, Y: 380}, result.Path[len(result.Path)-1])
	assert.Len(t, result.Tree, result.Nodes)
	assert.Len(t, result.Parent, result.Nodes)
}

func TestPlanCommand_ObstaclesAndSmoothing(t *testing.T) {
	geojson := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
"geometry":{"type":"Polygon","coordinates":[[[200,0],[220,0],[220,380],[200,380],[200,0]]]}}]}`
	path := filepath.Join(t.TempDir(), "wall.geojson")
	require.NoError(t, os.WriteFile(path, []byte(geojson), 0o644))

	out, err := runCLI(t, "plan",
		"--nodes", "20000", "--epsilon", "7",
		"--init", "50,50", "--goal", "400,50",
		"--seed", "2", "--index", "rtree",
		"--obstacles", path, "--smooth",
	)
	require.NoError(t, err)

	var result planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Obstacles)
	require.True(t, result.GoalReached)
	require.NotEmpty(t, result.SmoothedPath)
	assert.LessOrEqual(t, result.SmoothedLength, result.PathLength+1e-9)
}

func TestPlanCommand_FailIfUnreached(t *testing.T) {
	out, err := runCLI(t, "plan",
		"--nodes", "10", "--epsilon", "1",
		"--init", "0,0", "--goal", "600,400",
		"--seed", "1", "--fail-if-unreached",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrGoalNotReached)

	var result planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.GoalReached)
	assert.Equal(t, 10, result.Nodes)
	assert.Empty(t, result.Path)
}

func TestPlanCommand_InvalidFlags(t *testing.T) {
	_, err := runCLI(t, "plan", "--epsilon=-2")
	assert.ErrorIs(t, err, planner.ErrInvalidConfiguration)

	_, err = runCLI(t, "plan", "--init", "1,2,3")
	assert.Error(t, err)

	_, err = runCLI(t, "plan", "--bounds", "0,0,10")
	assert.Error(t, err)

	_, err = runCLI(t, "plan", "--index", "kdtree")
	assert.ErrorIs(t, err, planner.ErrInvalidConfiguration)
}

func TestPlanCommand_ConfigFile(t *testing.T) {
	scenario := `planner:
  start: {x: 5, y: 5}
  goal: {x: 60, y: 60}
  max_nodes: 2000
  epsilon: 5
  bias_percentage: 50
  bounds: {min_x: 0, min_y: 0, max_x: 100, max_y: 100}
  random_seed: 11
obstacles:
  rects:
    - {min_x: 30, min_y: 0, max_x: 35, max_y: 80}
logging:
  level: error
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	out, err := runCLI(t, "plan", "--config", path)
	require.NoError(t, err)

	var result planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Obstacles)
	assert.True(t, result.GoalReached)
	assert.Equal(t, planner.Point{X: 5, Y: 5}, result.Path[0])
}

// Package config loads planning scenarios from YAML files.
//
// A scenario bundles the planner parameters, the obstacle sources, and the
// logging and server settings:
//
//	planner:
//	  start: {x: 50, y: 50}
//	  goal: {x: 540, y: 380}
//	  max_nodes: 5000
//	  epsilon: 7
//	  bias_percentage: 30
//	  bounds: {min_x: 0, min_y: 0, max_x: 640, max_y: 480}
//	obstacles:
//	  files: [zones.geojson]
//	  rects:
//	    - {min_x: 200, min_y: 0, max_x: 220, max_y: 300}
//	logging:
//	  level: debug
//	server:
//	  addr: ":8080"
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"rrt-planner/internal/logging"
	"rrt-planner/obstacles"
	"rrt-planner/planner"
)

// Scenario is the top-level configuration file.
type Scenario struct {
	Planner   planner.Config  `json:"planner" yaml:"planner"`
	Obstacles ObstacleConfig  `json:"obstacles" yaml:"obstacles"`
	Logging   logging.Config  `json:"logging" yaml:"logging"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Smoothing SmoothingConfig `json:"smoothing" yaml:"smoothing"`

	// baseDir resolves relative obstacle paths. Set by LoadFile.
	baseDir string
}

// ObstacleConfig lists where obstacles come from. All sources are merged.
type ObstacleConfig struct {
	Files    []string            `json:"files,omitempty" yaml:"files,omitempty"`
	Dirs     []string            `json:"dirs,omitempty" yaml:"dirs,omitempty"`
	Polygons []obstacles.Polygon `json:"polygons,omitempty" yaml:"polygons,omitempty"`
	Rects    []planner.Bounds    `json:"rects,omitempty" yaml:"rects,omitempty"`

	SimplifyTolerance float64 `json:"simplify_tolerance,omitempty" yaml:"simplify_tolerance,omitempty"`
	Compact           bool    `json:"compact,omitempty" yaml:"compact,omitempty"`
	MergeTolerance    float64 `json:"merge_tolerance,omitempty" yaml:"merge_tolerance,omitempty"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr          string `json:"addr" yaml:"addr"`
	MaxSessions   int    `json:"max_sessions" yaml:"max_sessions"`
	AllowedOrigin string `json:"allowed_origin" yaml:"allowed_origin"`

	// Per-request budget ceilings. A request with max_attempts 0 (unlimited)
	// is held to MaxAttempts.
	MaxNodes    int `json:"max_nodes" yaml:"max_nodes"`
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// SmoothingConfig toggles path shortcutting after a successful plan.
type SmoothingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Default returns the reference scenario with an empty map.
func Default() Scenario {
	return Scenario{
		Planner: planner.DefaultConfig(),
		Logging: logging.Config{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxSessions:   64,
			AllowedOrigin: "*",
			MaxNodes:      50000,
			MaxAttempts:   500000,
		},
	}
}

// LoadFile reads a YAML (or JSON) scenario on top of Default and applies
// environment overrides. Fields absent from the file keep their defaults.
func LoadFile(path string) (Scenario, error) {
	scenario := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return scenario, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		// each attempt starts from fresh defaults so a failed YAML decode
		// leaves nothing behind for the JSON one
		parsed := Default()
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			parsed = Default()
			if jsonErr := json.Unmarshal(data, &parsed); jsonErr != nil {
				return scenario, fmt.Errorf("parse config %s (tried YAML and JSON): YAML error: %v, JSON error: %w", path, err, jsonErr)
			}
		}
		scenario = parsed
		scenario.baseDir = filepath.Dir(path)
	}

	applyEnv(&scenario)

	if err := scenario.Planner.Validate(); err != nil {
		return scenario, fmt.Errorf("invalid config: %w", err)
	}
	return scenario, nil
}

func applyEnv(s *Scenario) {
	if v := os.Getenv("RRT_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	if v := os.Getenv("RRT_LOG_FORMAT"); v != "" {
		s.Logging.Format = v
	}
	if v := os.Getenv("RRT_SERVER_ADDR"); v != "" {
		s.Server.Addr = v
	}
	if v := os.Getenv("RRT_MAX_SESSIONS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			s.Server.MaxSessions = i
		}
	}
	if v := os.Getenv("RRT_SERVER_MAX_NODES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			s.Server.MaxNodes = i
		}
	}
}

func (s Scenario) resolve(path string) string {
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// LoadObstacles gathers every configured obstacle source into one list.
func (s Scenario) LoadObstacles(logger *slog.Logger) ([]obstacles.Polygon, error) {
	opts := obstacles.LoadOptions{
		SimplifyTolerance: s.Obstacles.SimplifyTolerance,
		Logger:            logger,
	}

	var polygons []obstacles.Polygon
	for _, file := range s.Obstacles.Files {
		loaded, err := obstacles.LoadGeoJSONFile(s.resolve(file), opts)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, loaded...)
	}
	for _, dir := range s.Obstacles.Dirs {
		loaded, err := obstacles.LoadGeoJSONDir(s.resolve(dir), opts)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, loaded...)
	}

	inline := make([]obstacles.Polygon, 0, len(s.Obstacles.Polygons)+len(s.Obstacles.Rects))
	inline = append(inline, s.Obstacles.Polygons...)
	for _, r := range s.Obstacles.Rects {
		inline = append(inline, obstacles.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY))
	}
	if s.Obstacles.SimplifyTolerance > 0 {
		inline = obstacles.SimplifyPolygons(inline, s.Obstacles.SimplifyTolerance)
	}
	polygons = append(polygons, inline...)

	if s.Obstacles.Compact {
		polygons = obstacles.Compact(polygons)
	}
	if s.Obstacles.MergeTolerance > 0 {
		polygons = obstacles.MergeAdjacent(polygons, s.Obstacles.MergeTolerance)
	}
	return polygons, nil
}

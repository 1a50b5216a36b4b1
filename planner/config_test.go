package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero epsilon", func(c *Config) { c.Epsilon = 0 }, "Epsilon"},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }, "Epsilon"},
		{"NaN epsilon", func(c *Config) { c.Epsilon = math.NaN() }, "Epsilon"},
		{"zero nodes", func(c *Config) { c.MaxNodes = 0 }, "MaxNodes"},
		{"bias too low", func(c *Config) { c.BiasPercentage = 0 }, "BiasPercentage"},
		{"bias too high", func(c *Config) { c.BiasPercentage = 101 }, "BiasPercentage"},
		{"start outside", func(c *Config) { c.Start = Point{-1, 50} }, "Start"},
		{"goal outside", func(c *Config) { c.Goal = Point{540, 481} }, "Goal"},
		{"empty bounds", func(c *Config) { c.Bounds = Bounds{MinX: 10, MinY: 10, MaxX: 10, MaxY: 20} }, "Bounds"},
		{"unknown index", func(c *Config) { c.NeighborIndex = "kdtree" }, "NeighborIndex"},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -3 }, "MaxAttempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateReportsEveryViolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Epsilon = 0
	cfg.MaxNodes = -5
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "Epsilon")
	assert.Contains(t, err.Error(), "MaxNodes")
}

func TestGoalBiasPeriod(t *testing.T) {
	tests := []struct {
		bias int
		want int
	}{
		{1, 10},
		{9, 10},
		{10, 9},
		{30, 7},
		{50, 5},
		{89, 2},
		{90, 1},
		{99, 1},
		{100, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, goalBiasPeriod(tt.bias), "bias %d", tt.bias)
	}
}

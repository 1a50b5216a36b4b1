package planner

import (
	"math/rand"
	"time"
)

// Sampler draws extension targets inside the sampling bounds. Every period-th
// call, counting from the first, it returns the goal instead of a uniform point.
type Sampler struct {
	rng       *rand.Rand
	bounds    Bounds
	goal      Point
	period    int
	iteration int
}

// NewSampler creates a sampler. A nil seed seeds from the clock.
func NewSampler(bounds Bounds, goal Point, biasPercentage int, seed *int64) *Sampler {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return &Sampler{
		rng:    rand.New(rand.NewSource(s)),
		bounds: bounds,
		goal:   goal,
		period: goalBiasPeriod(biasPercentage),
	}
}

// Sample draws a point uniformly at random within the bounds.
func (s *Sampler) Sample() Point {
	return Point{
		X: s.bounds.MinX + s.rng.Float64()*(s.bounds.MaxX-s.bounds.MinX),
		Y: s.bounds.MinY + s.rng.Float64()*(s.bounds.MaxY-s.bounds.MinY),
	}
}

// Next returns the target for the current iteration and whether the goal bias
// selected it. The uniform draw is skipped on biased iterations.
func (s *Sampler) Next() (Point, bool) {
	biased := s.iteration%s.period == 0
	s.iteration++
	if biased {
		return s.goal, true
	}
	return s.Sample(), false
}

// Period reports N in "every Nth iteration targets the goal".
func (s *Sampler) Period() int { return s.period }

package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seed(v int64) *int64 { return &v }

func TestSampler_Reproducible(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 640, MaxY: 480}
	goal := Point{540, 380}
	s1 := NewSampler(b, goal, 30, seed(99))
	s2 := NewSampler(b, goal, 30, seed(99))

	for i := 0; i < 200; i++ {
		p1, biased1 := s1.Next()
		p2, biased2 := s2.Next()
		assert.Equal(t, p1, p2)
		assert.Equal(t, biased1, biased2)
	}
}

func TestSampler_StaysInBounds(t *testing.T) {
	b := Bounds{MinX: -20, MinY: 100, MaxX: 15, MaxY: 101}
	s := NewSampler(b, Point{0, 100.5}, 1, seed(3))
	for i := 0; i < 1000; i++ {
		assert.True(t, b.Contains(s.Sample()))
	}
}

func TestSampler_GoalEveryNthIteration(t *testing.T) {
	goal := Point{540, 380}
	s := NewSampler(Bounds{MaxX: 640, MaxY: 480}, goal, 30, seed(1))
	assert.Equal(t, 7, s.Period())

	for i := 0; i < 70; i++ {
		p, biased := s.Next()
		if i%7 == 0 {
			assert.True(t, biased, "iteration %d", i)
			assert.Equal(t, goal, p)
		} else {
			assert.False(t, biased, "iteration %d", i)
		}
	}
}

func TestSampler_FullBias(t *testing.T) {
	goal := Point{1, 2}
	s := NewSampler(Bounds{MaxX: 10, MaxY: 10}, goal, 100, nil)
	for i := 0; i < 20; i++ {
		p, biased := s.Next()
		assert.True(t, biased)
		assert.Equal(t, goal, p)
	}
}

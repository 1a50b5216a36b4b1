package planner

import (
	"fmt"
	"math"
)

// Point is a state in the 2D configuration space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Bounds is the axis-aligned sampling domain.
type Bounds struct {
	MinX float64 `json:"minX" yaml:"min_x"`
	MinY float64 `json:"minY" yaml:"min_y"`
	MaxX float64 `json:"maxX" yaml:"max_x"`
	MaxY float64 `json:"maxY" yaml:"max_y"`
}

// Empty reports whether the region has no interior.
func (b Bounds) Empty() bool {
	return !(b.MaxX > b.MinX && b.MaxY > b.MinY)
}

// Contains reports whether p lies inside the region, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Steer advances from near toward target by at most epsilon.
//
// A target closer than epsilon is returned unchanged. Otherwise the result lies
// exactly epsilon away from near along atan2(dy, dx). For coincident points
// math.Atan2 yields 0, so the step follows the X axis instead of producing NaN.
func Steer(near, target Point, epsilon float64) Point {
	if near.Distance(target) < epsilon {
		return target
	}
	theta := math.Atan2(target.Y-near.Y, target.X-near.X)
	return Point{
		X: near.X + epsilon*math.Cos(theta),
		Y: near.Y + epsilon*math.Sin(theta),
	}
}

// PathLength sums the edge lengths of a polyline.
func PathLength(path []Point) float64 {
	var total float64
	for i := 0; i < len(path)-1; i++ {
		total += path[i].Distance(path[i+1])
	}
	return total
}

package maze

import (
	"fmt"
	"math"
)

// Position is a cell coordinate. X grows to the right, Y grows downwards.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Move returns the neighbor in the given direction. The result may lie outside the grid.
func (p Position) Move(d Direction) Position {
	delta := directionDeltas[d]
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// InBounds reports whether the position lies within [0, bound] on both axes.
func (p Position) InBounds(bound Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= bound.X && p.Y <= bound.Y
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Distance returns the straight-line distance between two cells.
func Distance(a, b Position) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Point is a continuous coordinate, used where cell centers fall between cells.
type Point struct {
	X, Y float64
}

// Point converts the position to continuous coordinates.
func (p Position) Point() Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// DistanceToLine returns the perpendicular distance from p to the line through a and b.
// When a and b coincide the line is undefined and the distance to a is returned.
func DistanceToLine(p Position, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	q := p.Point()
	if length == 0 {
		return math.Hypot(q.X-a.X, q.Y-a.Y)
	}
	return math.Abs(dy*q.X-dx*q.Y+b.X*a.Y-b.Y*a.X) / length
}

package navigator

import (
	"math"

	"github.com/beka-birhanu/vinom-bot/maze"
)

// Heuristic weights. Lower scores are better.
const (
	goalWeight   = 0.5
	pathWeight   = 0.5
	offsetWeight = 0.1

	unreachablePenalty = 1.0
)

// Score ranks a candidate cell. It combines the normalized straight-line distance to the
// goal, the residual path length relative to the explorable space, and the offset from
// the line joining the maze center and the goal.
func Score(candidate, goal, bound maze.Position, exp Exploration) float64 {
	diagonal := nonZero(math.Hypot(float64(bound.X), float64(bound.Y)))

	goalTerm := maze.Distance(candidate, goal) / diagonal

	pathTerm := unreachablePenalty
	if exp.Reachable {
		pathTerm = math.Sqrt(float64(exp.Distance) / nonZero(8*float64(bound.X)+8*float64(bound.Y)))
	}

	center := maze.Point{X: float64(bound.X) / 2, Y: float64(bound.Y) / 2}
	offsetTerm := maze.DistanceToLine(candidate, center, goal.Point()) / diagonal

	frontier := float64(max(exp.Frontier, 1))
	return goalWeight*goalTerm + pathWeight*pathTerm/math.Sqrt(frontier) + offsetWeight*offsetTerm
}

// nonZero keeps normalizers of a single-cell grid from dividing by zero.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

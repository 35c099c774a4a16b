package navigator

import (
	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/zyedidia/generic/mapset"
)

// Exploration is the outcome of a reachability search from a candidate cell.
type Exploration struct {
	Distance  int  // Steps to the goal, valid only when Reachable.
	Reachable bool // Goal reachable without entering explored cells.
	Frontier  int  // Distinct cells reached, including the starting one.
}

type queued struct {
	pos  maze.Position
	dist int
}

// Explore runs a breadth-first search from `from` over cells inside [0, bound] that are
// not in visited. Visited cells are barriers: the search estimates the value of newly
// discoverable space, not the true shortest path. Walls of unvisited cells are unknown
// and therefore ignored.
func Explore(from, bound maze.Position, visited VisitedGraph, goal maze.Position) Exploration {
	var result Exploration

	seen := mapset.New[maze.Position]()
	seen.Put(from)
	queue := []queued{{pos: from}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.pos == goal && !result.Reachable {
			result.Reachable = true
			result.Distance = cur.dist
		}

		for _, d := range maze.Directions {
			next := cur.pos.Move(d)
			if !next.InBounds(bound) || visited.Contains(next) || seen.Has(next) {
				continue
			}
			seen.Put(next)
			queue = append(queue, queued{pos: next, dist: cur.dist + 1})
		}
	}

	result.Frontier = seen.Size()
	return result
}

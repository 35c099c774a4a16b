package navigator

import "github.com/beka-birhanu/vinom-bot/maze"

// parent is an optional back-link in the exploration tree.
type parent struct {
	pos maze.Position
	ok  bool
}

// VisitedGraph maps every occupied cell to the cell it was first reached from. It is a
// tree rooted at the start cell, the only entry without a parent.
type VisitedGraph map[maze.Position]parent

// Contains reports whether the cell has been occupied during the run.
func (g VisitedGraph) Contains(p maze.Position) bool {
	_, ok := g[p]
	return ok
}

// Parent returns the cell p was first reached from. ok is false for the root and for
// cells never visited.
func (g VisitedGraph) Parent(p maze.Position) (maze.Position, bool) {
	link, found := g[p]
	if !found || !link.ok {
		return maze.Position{}, false
	}
	return link.pos, true
}

// Len returns the number of visited cells.
func (g VisitedGraph) Len() int {
	return len(g)
}

// Depth returns the number of parent links between p and the root, or -1 when p has not
// been visited.
func (g VisitedGraph) Depth(p maze.Position) int {
	if !g.Contains(p) {
		return -1
	}
	depth := 0
	for {
		next, ok := g.Parent(p)
		if !ok {
			return depth
		}
		p = next
		depth++
	}
}

// insert records p with an optional parent. Existing entries are never overwritten.
func (g VisitedGraph) insert(p maze.Position, from maze.Position, hasFrom bool) {
	if g.Contains(p) {
		return
	}
	g[p] = parent{pos: from, ok: hasFrom}
}

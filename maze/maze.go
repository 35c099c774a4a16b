/*
Package maze provides the grid primitives shared by the bot and the local simulator.

It defines cell coordinates, the four move directions with their fixed evaluation order,
per-cell wall descriptors and the geometric helpers used by the navigator.

The package also includes a perfect-maze generator based on Wilson's algorithm and an
ASCII rendering of the generated grid.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

const (
	maxMazeDimension = 64
)

var (
	ErrInvalidDimension = errors.New("invalid maze dimensions")
	ErrOutOfBounds      = errors.New("position is out of the maze")
)

// Grid is a rectangular maze. Walls are stored per cell and kept consistent between
// neighbors.
type Grid struct {
	Width  int       // Width of the maze (number of columns)
	Height int       // Height of the maze (number of rows)
	cells  [][]Walls // cells[y][x]
}

// Generate builds a perfect maze of the given dimensions using rng as the source of
// randomness.
func Generate(width, height int, rng *rand.Rand) (*Grid, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}

	cells := make([][]Walls, height)
	for y := range cells {
		cells[y] = make([]Walls, width)
		for x := range cells[y] {
			cells[y][x] = AllWalls
		}
	}

	g := &Grid{
		Width:  width,
		Height: height,
		cells:  cells,
	}
	g.generate(rng)
	return g, nil
}

// Bound returns the largest valid position of the grid.
func (g *Grid) Bound() Position {
	return Position{X: g.Width - 1, Y: g.Height - 1}
}

// InBound checks whether the position lies inside the grid.
func (g *Grid) InBound(p Position) bool {
	return p.InBounds(g.Bound())
}

// Walls returns the wall descriptor of a cell.
func (g *Grid) Walls(p Position) (Walls, error) {
	if !g.InBound(p) {
		return Walls{}, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	return g.cells[p.Y][p.X], nil
}

// CanMove checks if a move is valid (i.e., the connecting wall is down).
func (g *Grid) CanMove(from Position, d Direction) bool {
	to := from.Move(d)
	if !g.InBound(from) || !g.InBound(to) {
		return false
	}
	return !g.cells[from.Y][from.X].Has(d) && !g.cells[to.Y][to.X].Has(d.Opposite())
}

// randomPosition generates a random position within the maze.
func (g *Grid) randomPosition(rng *rand.Rand) Position {
	return Position{X: rng.Intn(g.Width), Y: rng.Intn(g.Height)}
}

// randomUnvisitedPosition selects a random position that is not yet part of the maze.
func (g *Grid) randomUnvisitedPosition(rng *rand.Rand, visited map[Position]struct{}) Position {
	for {
		pos := g.randomPosition(rng)
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors lists the in-bound directions leaving a cell.
func (g *Grid) neighbors(p Position) []Direction {
	var result []Direction
	for _, d := range Directions {
		if g.InBound(p.Move(d)) {
			result = append(result, d)
		}
	}
	return result
}

// openWall removes the wall between a cell and its neighbor in the given direction.
func (g *Grid) openWall(from Position, d Direction) {
	to := from.Move(d)
	g.cells[from.Y][from.X].Set(d, false)
	g.cells[to.Y][to.X].Set(d.Opposite(), false)
}

// randomWalk walks from an unvisited cell until it hits the maze. Revisited cells
// overwrite their exit, which erases loops.
func (g *Grid) randomWalk(rng *rand.Rand, visited map[Position]struct{}) (Position, map[Position]Direction) {
	start := g.randomUnvisitedPosition(rng, visited)
	exits := make(map[Position]Direction)
	cell := start

	for {
		neighbors := g.neighbors(cell)
		d := neighbors[rng.Intn(len(neighbors))]
		exits[cell] = d
		next := cell.Move(d)
		if _, included := visited[next]; included {
			break
		}
		cell = next
	}

	return start, exits
}

// generate carves the maze with Wilson's algorithm.
func (g *Grid) generate(rng *rand.Rand) {
	visited := make(map[Position]struct{})
	visited[g.randomPosition(rng)] = struct{}{}

	for len(visited) < g.Width*g.Height {
		start, exits := g.randomWalk(rng, visited)
		// Follow the loop-erased path from the start of the walk.
		for cell := start; ; {
			if _, included := visited[cell]; included {
				break
			}
			d := exits[cell]
			g.openWall(cell, d)
			visited[cell] = struct{}{}
			cell = cell.Move(d)
		}
	}
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", g.Width) + "\n")

	for y := 0; y < g.Height; y++ {
		cellRow := "|"
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x].Right {
				cellRow += "   |"
			} else {
				cellRow += "    "
			}
		}
		output.WriteString(cellRow + "\n")

		wallRow := "+"
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x].Bottom {
				wallRow += "---+"
			} else {
				wallRow += "   +"
			}
		}
		output.WriteString(wallRow + "\n")
	}

	return output.String()
}

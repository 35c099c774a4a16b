package maze

import (
	"errors"
	"fmt"
)

// Direction is one of the four grid moves.
type Direction int

// The declaration order is significant: candidates are evaluated and ties are broken
// in this order.
const (
	Up Direction = iota
	Right
	Down
	Left
)

var (
	// Directions lists every direction in evaluation order.
	Directions = []Direction{Up, Right, Down, Left}

	ErrUnknownDirection = errors.New("unknown direction")
	ErrNotAdjacent      = errors.New("cells are not adjacent")

	directionNames = map[Direction]string{
		Up:    "up",
		Right: "right",
		Down:  "down",
		Left:  "left",
	}

	directionDeltas = map[Direction]Position{
		Up:    {X: 0, Y: -1},
		Right: {X: 1, Y: 0},
		Down:  {X: 0, Y: 1},
		Left:  {X: -1, Y: 0},
	}
)

// String returns the wire name of the direction.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// ParseDirection converts a wire name back into a Direction.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// DirectionBetween returns the direction leading from one cell to a 4-adjacent cell.
// Equal or non-adjacent cells yield ErrNotAdjacent.
func DirectionBetween(from, to Position) (Direction, error) {
	delta := Position{X: to.X - from.X, Y: to.Y - from.Y}
	for _, d := range Directions {
		if directionDeltas[d] == delta {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %v -> %v", ErrNotAdjacent, from, to)
}

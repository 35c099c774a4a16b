package maze

// Walls describes which sides of a single cell are blocked.
type Walls struct {
	Top    bool `json:"top"`    // Top is the side facing Up.
	Right  bool `json:"right"`  // Right is the side facing Right.
	Bottom bool `json:"bottom"` // Bottom is the side facing Down.
	Left   bool `json:"left"`   // Left is the side facing Left.
}

// AllWalls is a cell closed on every side.
var AllWalls = Walls{Top: true, Right: true, Bottom: true, Left: true}

// Has reports whether the side facing d is blocked.
func (w Walls) Has(d Direction) bool {
	switch d {
	case Up:
		return w.Top
	case Right:
		return w.Right
	case Down:
		return w.Bottom
	case Left:
		return w.Left
	default:
		return true
	}
}

// Set changes the side facing d.
func (w *Walls) Set(d Direction, blocked bool) {
	switch d {
	case Up:
		w.Top = blocked
	case Right:
		w.Right = blocked
	case Down:
		w.Bottom = blocked
	case Left:
		w.Left = blocked
	}
}

package navigator

import (
	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/google/uuid"
)

// Observation is an event the navigator consumes. Other server messages are handled
// outside this package.
type Observation interface {
	observation()
}

// PositionObserved reports the cell the bot occupies and the walls around it.
type PositionObserved struct {
	Cell  maze.Position
	Walls maze.Walls
}

// GoalAnnounced starts a new run towards Cell.
type GoalAnnounced struct {
	Cell maze.Position
}

func (PositionObserved) observation() {}
func (GoalAnnounced) observation()    {}

// State is the belief the bot holds about the current run. It is owned by a single
// control loop and mutated in place between decisions.
type State struct {
	runID uuid.UUID

	current    maze.Position
	hasCurrent bool
	last       maze.Position
	hasLast    bool
	start      maze.Position
	hasStart   bool
	walls      maze.Walls
	goal       maze.Position
	hasGoal    bool

	visited VisitedGraph
	history History
}

// NewState returns an empty state waiting for its first observation.
func NewState() *State {
	return &State{
		runID:   uuid.New(),
		visited: make(VisitedGraph),
	}
}

// Apply folds one observation into the state.
func (s *State) Apply(o Observation) {
	switch o := o.(type) {
	case PositionObserved:
		s.observePosition(o.Cell, o.Walls)
	case GoalAnnounced:
		s.reset()
		s.goal = o.Cell
		s.hasGoal = true
	}
}

func (s *State) observePosition(p maze.Position, w maze.Walls) {
	if !s.hasCurrent {
		s.start = p
		s.hasStart = true
	}
	if s.hasCurrent && p == s.current {
		return
	}

	s.visited.insert(p, s.current, s.hasCurrent)
	s.last, s.hasLast = s.current, s.hasCurrent
	s.current, s.hasCurrent = p, true
	s.walls = w
}

func (s *State) reset() {
	s.runID = uuid.New()
	s.current, s.hasCurrent = maze.Position{}, false
	s.last, s.hasLast = maze.Position{}, false
	s.start, s.hasStart = maze.Position{}, false
	s.walls = maze.Walls{}
	s.goal, s.hasGoal = maze.Position{}, false
	s.visited = make(VisitedGraph)
	s.history.Reset()
}

// RunID identifies the current run. It changes on every goal announcement.
func (s *State) RunID() uuid.UUID { return s.runID }

// Current returns the occupied cell, if known.
func (s *State) Current() (maze.Position, bool) { return s.current, s.hasCurrent }

// Last returns the previously occupied cell, if any.
func (s *State) Last() (maze.Position, bool) { return s.last, s.hasLast }

// Start returns the first cell observed in the run.
func (s *State) Start() (maze.Position, bool) { return s.start, s.hasStart }

// Goal returns the announced goal, if any.
func (s *State) Goal() (maze.Position, bool) { return s.goal, s.hasGoal }

// Walls returns the walls of the current cell.
func (s *State) Walls() maze.Walls { return s.walls }

// Visited exposes the exploration tree. Callers must not modify it.
func (s *State) Visited() VisitedGraph { return s.visited }

// History exposes the accepted-move scores.
func (s *State) History() *History { return &s.history }

// Extent returns the inferred grid bound. The protocol never reports the grid size, so
// it is taken from the start cell's row, which assumes a square maze entered on its
// bottom row.
func (s *State) Extent() maze.Position {
	return maze.Position{X: s.start.Y, Y: s.start.Y}
}

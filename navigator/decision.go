package navigator

import (
	"errors"
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-bot/maze"
)

var (
	// ErrInvariantViolation means the exploration tree links cells that are not adjacent.
	ErrInvariantViolation = errors.New("navigation invariant violated")
)

// Action is the kind of decision taken on a tick.
type Action int

const (
	// ActionNone means no command is sent this tick.
	ActionNone Action = iota
	// ActionForward moves into the best unvisited candidate.
	ActionForward
	// ActionBacktrack moves to the parent of the current cell.
	ActionBacktrack
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionBacktrack:
		return "backtrack"
	default:
		return "none"
	}
}

// Config tunes candidate filtering.
type Config struct {
	HeuristicCut  float64 // Candidates scoring above this are rejected.
	DeclineLength int     // Number of recent accepted scores forming the guard.
	DeclineCut    float64 // Candidates scoring above DeclineCut*guard are rejected.
}

// Candidate is one evaluated neighbor of the current cell.
type Candidate struct {
	Direction maze.Direction
	Cell      maze.Position
	Score     float64
	Explored  Exploration
	Visited   bool
	Accepted  bool
}

// Decision is the outcome of one tick.
type Decision struct {
	Action     Action
	Direction  maze.Direction
	Score      float64 // Score of the chosen candidate, forward moves only.
	Exhausted  bool    // No forward candidate and no parent to return to.
	Candidates []Candidate
}

// Engine turns the navigation state into at most one move per tick.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Decide picks the move for the current tick. It pushes the score of accepted forward
// moves onto the state's history and pops it when backtracking.
func (e *Engine) Decide(s *State) (Decision, error) {
	pos, ok := s.Current()
	if !ok {
		return Decision{Action: ActionNone}, nil
	}
	goal, ok := s.Goal()
	if !ok {
		return Decision{Action: ActionNone}, nil
	}

	guard := s.History().Guard(e.cfg.DeclineLength)
	bound := s.Extent()
	walls := s.Walls()

	decision := Decision{Action: ActionNone}
	best := -1
	for _, d := range maze.Directions {
		if walls.Has(d) {
			continue
		}
		cell := pos.Move(d)
		exp := Explore(cell, bound, s.Visited(), goal)
		c := Candidate{
			Direction: d,
			Cell:      cell,
			Explored:  exp,
			Score:     Score(cell, goal, bound, exp),
			Visited:   s.Visited().Contains(cell),
		}
		c.Accepted = exp.Reachable && c.Score <= e.cfg.HeuristicCut && e.withinGuard(c.Score, guard)
		decision.Candidates = append(decision.Candidates, c)

		// Strict comparison keeps the earliest direction on ties.
		if c.Accepted && !c.Visited && (best < 0 || c.Score < decision.Candidates[best].Score) {
			best = len(decision.Candidates) - 1
		}
	}

	if best >= 0 {
		chosen := decision.Candidates[best]
		s.History().Push(chosen.Score)
		decision.Action = ActionForward
		decision.Direction = chosen.Direction
		decision.Score = chosen.Score
		return decision, nil
	}

	back, ok := s.Visited().Parent(pos)
	if !ok {
		decision.Exhausted = true
		return decision, nil
	}

	d, err := maze.DirectionBetween(pos, back)
	if err != nil {
		return decision, fmt.Errorf("%w: backtracking from %v: %w", ErrInvariantViolation, pos, err)
	}
	s.History().Pop()
	decision.Action = ActionBacktrack
	decision.Direction = d
	return decision, nil
}

// withinGuard rejects scores markedly worse than the best recently accepted one. An
// empty history disables the guard.
func (e *Engine) withinGuard(score, guard float64) bool {
	if math.IsInf(guard, 1) {
		return true
	}
	return score <= e.cfg.DeclineCut*guard
}

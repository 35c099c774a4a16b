// Package dmn holds the data shared between the player, its storage and the API.
package dmn

import (
	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/google/uuid"
)

// Status is a point-in-time view of the player.
type Status struct {
	User       string         `json:"user"`
	Connected  bool           `json:"connected"`
	RunID      uuid.UUID      `json:"runId"`
	Current    *maze.Position `json:"current,omitempty"`
	Goal       *maze.Position `json:"goal,omitempty"`
	Visited    int            `json:"visited"`
	Moves      int            `json:"moves"`
	Backtracks int            `json:"backtracks"`
	Exhausted  bool           `json:"exhausted"`
	Wins       int            `json:"wins"`
	Losses     int            `json:"losses"`
}

// CandidateView describes one evaluated neighbor in a tick event.
type CandidateView struct {
	Direction string  `json:"direction"`
	Score     float64 `json:"score"`
	Reachable bool    `json:"reachable"`
	Visited   bool    `json:"visited"`
	Accepted  bool    `json:"accepted"`
}

// TickEvent is published after every decision.
type TickEvent struct {
	RunID      uuid.UUID       `json:"runId"`
	Cell       maze.Position   `json:"cell"`
	Action     string          `json:"action"`
	Direction  string          `json:"direction,omitempty"`
	Score      float64         `json:"score,omitempty"`
	Exhausted  bool            `json:"exhausted,omitempty"`
	Candidates []CandidateView `json:"candidates"`
}

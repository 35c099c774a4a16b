package dmn

import (
	"time"

	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/google/uuid"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// RunResult is a finished maze run as stored in the result history.
type RunResult struct {
	ID         uuid.UUID     `bson:"_id" json:"id"`
	RunID      uuid.UUID     `bson:"runId" json:"runId"`
	User       string        `bson:"user" json:"user"`
	Outcome    Outcome       `bson:"outcome" json:"outcome"`
	Goal       maze.Position `bson:"goal" json:"goal"`
	Moves      int           `bson:"moves" json:"moves"`
	Backtracks int           `bson:"backtracks" json:"backtracks"`
	Visited    int           `bson:"visited" json:"visited"`
	Wins       int           `bson:"wins" json:"wins"`
	Losses     int           `bson:"losses" json:"losses"`
	FinishedAt time.Time     `bson:"finishedAt" json:"finishedAt"`
}

// Standing is one leaderboard row.
type Standing struct {
	User   string `json:"user"`
	Wins   int64  `json:"wins"`
	Played int64  `json:"played"`
}

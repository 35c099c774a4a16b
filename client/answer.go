package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beka-birhanu/vinom-bot/maze"
)

const (
	fieldSeparator = "|"
	wallSet        = "1"
)

var (
	ErrUnknownAnswer = errors.New("unknown answer kind")
)

// Answer is one line sent by the game server.
type Answer interface {
	Kind() string
}

// Motd carries the server's message of the day.
type Motd struct{ Message string }

// ServerError is an error message from the server, e.g. for an illegal move.
type ServerError struct{ Message string }

// Goal announces a new goal and starts a new run.
type Goal struct{ Cell maze.Position }

// Pos reports the bot's cell and the walls around it.
type Pos struct {
	Cell  maze.Position
	Walls maze.Walls
}

// Win reports a reached goal with the account's running totals.
type Win struct{ Wins, Losses int }

// Lose reports a failed run with the account's running totals.
type Lose struct{ Wins, Losses int }

// Game carries the two positions of a game announcement.
type Game struct{ First, Second maze.Position }

func (Motd) Kind() string        { return "motd" }
func (ServerError) Kind() string { return "error" }
func (Goal) Kind() string        { return "goal" }
func (Pos) Kind() string         { return "pos" }
func (Win) Kind() string         { return "win" }
func (Lose) Kind() string        { return "lose" }
func (Game) Kind() string        { return "game" }

// fields walks the parts of a line, defaulting missing or malformed values.
type fields struct {
	parts []string
}

func (f *fields) next() string {
	if len(f.parts) == 0 {
		return ""
	}
	p := f.parts[0]
	f.parts = f.parts[1:]
	return p
}

func (f *fields) int() int {
	v, err := strconv.Atoi(f.next())
	if err != nil {
		return 0
	}
	return v
}

func (f *fields) position() maze.Position {
	x := f.int()
	y := f.int()
	return maze.Position{X: x, Y: y}
}

func (f *fields) wall() bool {
	return f.next() == wallSet
}

// ParseAnswer decodes one line. An empty line yields a nil answer and no error.
func ParseAnswer(line string) (Answer, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	parts := strings.Split(line, fieldSeparator)
	f := &fields{parts: parts[1:]}
	switch kind := parts[0]; kind {
	case "motd":
		return Motd{Message: f.next()}, nil
	case "error":
		return ServerError{Message: f.next()}, nil
	case "goal":
		return Goal{Cell: f.position()}, nil
	case "pos":
		cell := f.position()
		var w maze.Walls
		w.Top = f.wall()
		w.Right = f.wall()
		w.Bottom = f.wall()
		w.Left = f.wall()
		return Pos{Cell: cell, Walls: w}, nil
	case "win":
		return Win{Wins: f.int(), Losses: f.int()}, nil
	case "lose":
		return Lose{Wins: f.int(), Losses: f.int()}, nil
	case "game":
		first := f.position()
		return Game{First: first, Second: f.position()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnswer, kind)
	}
}

// Format encodes an answer as a protocol line without the trailing newline.
func Format(a Answer) string {
	switch a := a.(type) {
	case Motd:
		return join("motd", a.Message)
	case ServerError:
		return join("error", a.Message)
	case Goal:
		return join("goal", itoa(a.Cell.X), itoa(a.Cell.Y))
	case Pos:
		return join("pos", itoa(a.Cell.X), itoa(a.Cell.Y),
			flag(a.Walls.Top), flag(a.Walls.Right), flag(a.Walls.Bottom), flag(a.Walls.Left))
	case Win:
		return join("win", itoa(a.Wins), itoa(a.Losses))
	case Lose:
		return join("lose", itoa(a.Wins), itoa(a.Losses))
	case Game:
		return join("game", itoa(a.First.X), itoa(a.First.Y), itoa(a.Second.X), itoa(a.Second.Y))
	default:
		return ""
	}
}

func join(parts ...string) string {
	return strings.Join(parts, fieldSeparator)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func flag(b bool) string {
	if b {
		return wallSet
	}
	return "0"
}

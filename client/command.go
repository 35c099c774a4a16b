package client

import (
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-bot/maze"
)

// Command is one line sent to the game server.
type Command interface {
	Encode() string
}

// Join logs the bot into the game.
type Join struct{ User, Password string }

// Move steps one cell in a direction.
type Move struct{ Direction maze.Direction }

// Chat posts a message to the game chat.
type Chat struct{ Message string }

func (c Join) Encode() string { return join("join", c.User, c.Password) }
func (c Move) Encode() string { return join("move", c.Direction.String()) }
func (c Chat) Encode() string { return join("chat", c.Message) }

// ParseCommand decodes a command line, the server side of Encode.
func ParseCommand(line string) (Command, error) {
	parts := strings.Split(strings.TrimSpace(line), fieldSeparator)
	f := &fields{parts: parts[1:]}
	switch parts[0] {
	case "join":
		user := f.next()
		return Join{User: user, Password: f.next()}, nil
	case "move":
		d, err := maze.ParseDirection(f.next())
		if err != nil {
			return nil, err
		}
		return Move{Direction: d}, nil
	case "chat":
		return Chat{Message: f.next()}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", parts[0])
	}
}

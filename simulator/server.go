// Package simulator runs the maze game's server side of the line protocol over a single
// connection. It is used for local play and end-to-end tests of the bot.
package simulator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"strings"

	"github.com/beka-birhanu/vinom-bot/client"
	logger "github.com/beka-birhanu/vinom-bot/infrastruture/log"
	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/beka-birhanu/vinom-bot/service/i"
)

const (
	defaultSize     = 10
	defaultRounds   = 1
	defaultMotd     = "welcome to the maze"
	wallErrorReason = "there is a wall in the way"
)

var (
	ErrJoinExpected = errors.New("first command must be join")
)

// Config holds the parameters of a simulated session.
type Config struct {
	Size     int              // Width and height of every maze.
	Rounds   int              // Number of mazes played before the connection is closed.
	MaxMoves int              // Moves allowed per round before it is lost; 0 means 4*Size*Size.
	Seed     int64            // Seed for maze generation and goal placement.
	Motd     string           // Message of the day sent after join.
	Logger   i.Logger         // Optional logger.
	OnRound  func(*maze.Grid) // Optional hook called with every new maze.
}

// Result summarizes a finished session.
type Result struct {
	User   string
	Wins   int
	Losses int
	Moves  int
}

// Server plays one session per Serve call.
type Server struct {
	cfg    Config
	rng    *rand.Rand
	logger i.Logger
}

// New creates a simulator, filling defaults for unset fields.
func New(cfg Config) *Server {
	if cfg.Size <= 0 {
		cfg.Size = defaultSize
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = defaultRounds
	}
	if cfg.MaxMoves <= 0 {
		cfg.MaxMoves = 4 * cfg.Size * cfg.Size
	}
	if cfg.Motd == "" {
		cfg.Motd = defaultMotd
	}
	l := cfg.Logger
	if l == nil {
		l = logger.Discard()
	}
	return &Server{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: l,
	}
}

// session is the per-connection protocol state.
type session struct {
	conn   net.Conn
	reader *bufio.Reader
	result Result
}

func (s *session) send(a client.Answer) error {
	_, err := io.WriteString(s.conn, client.Format(a)+"\n")
	return err
}

func (s *session) next() (client.Command, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return client.ParseCommand(line)
	}
}

// Serve plays the configured rounds on conn and closes it. The connection is also closed
// when ctx is done.
func (srv *Server) Serve(ctx context.Context, conn net.Conn) (Result, error) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	s := &session{conn: conn, reader: bufio.NewReader(conn)}

	cmd, err := s.next()
	if err != nil {
		return s.result, err
	}
	join, ok := cmd.(client.Join)
	if !ok {
		_ = s.send(client.ServerError{Message: ErrJoinExpected.Error()})
		return s.result, ErrJoinExpected
	}
	s.result.User = join.User
	srv.logger.Info(fmt.Sprintf("player %s joined", join.User))

	if err := s.send(client.Motd{Message: srv.cfg.Motd}); err != nil {
		return s.result, err
	}

	for round := 0; round < srv.cfg.Rounds; round++ {
		if err := srv.playRound(s); err != nil {
			return s.result, err
		}
	}
	srv.logger.Info(fmt.Sprintf("session of %s finished: %d wins, %d losses", join.User, s.result.Wins, s.result.Losses))
	return s.result, nil
}

func (srv *Server) playRound(s *session) error {
	grid, err := maze.Generate(srv.cfg.Size, srv.cfg.Size, srv.rng)
	if err != nil {
		return err
	}
	if srv.cfg.OnRound != nil {
		srv.cfg.OnRound(grid)
	}

	// The bot infers the grid size from the start row, so rounds start bottom-left.
	pos := maze.Position{X: 0, Y: srv.cfg.Size - 1}
	goal := pos
	for goal == pos {
		goal = maze.Position{X: srv.rng.Intn(srv.cfg.Size), Y: srv.rng.Intn(srv.cfg.Size)}
	}

	if err := s.send(client.Goal{Cell: goal}); err != nil {
		return err
	}
	if err := srv.sendPos(s, grid, pos); err != nil {
		return err
	}

	for moves := 0; ; {
		cmd, err := s.next()
		if err != nil {
			return err
		}

		switch cmd := cmd.(type) {
		case client.Chat:
			srv.logger.Info(fmt.Sprintf("chat from %s: %s", s.result.User, cmd.Message))
			continue
		case client.Move:
			moves++
			s.result.Moves++
			if grid.CanMove(pos, cmd.Direction) {
				pos = pos.Move(cmd.Direction)
			} else if err := s.send(client.ServerError{Message: wallErrorReason}); err != nil {
				return err
			}
		default:
			if err := s.send(client.ServerError{Message: "unexpected command"}); err != nil {
				return err
			}
			continue
		}

		if err := srv.sendPos(s, grid, pos); err != nil {
			return err
		}
		if pos == goal {
			s.result.Wins++
			return s.send(client.Win{Wins: s.result.Wins, Losses: s.result.Losses})
		}
		if moves >= srv.cfg.MaxMoves {
			s.result.Losses++
			return s.send(client.Lose{Wins: s.result.Wins, Losses: s.result.Losses})
		}
	}
}

func (srv *Server) sendPos(s *session, grid *maze.Grid, pos maze.Position) error {
	walls, err := grid.Walls(pos)
	if err != nil {
		return err
	}
	return s.send(client.Pos{Cell: pos, Walls: walls})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-bot/client"
	dmn "github.com/beka-birhanu/vinom-bot/domain"
	logger "github.com/beka-birhanu/vinom-bot/infrastruture/log"
	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/beka-birhanu/vinom-bot/navigator"
	"github.com/beka-birhanu/vinom-bot/service/i"
	"github.com/google/uuid"
)

const (
	defaultStoreTimeout = 2 * time.Second
)

var (
	ErrMissingUser = errors.New("player needs a user name")
	ErrNotPlaying  = errors.New("player is not connected")
)

// GameConn is a connection to the maze game server.
type GameConn interface {
	ReadAnswer() (client.Answer, error)
	Send(cmd client.Command) error
	Close() error
}

type PlayerOptions struct {
	User         string
	Password     string
	Engine       navigator.Config
	Results      i.ResultRepo     // Optional.
	Leaderboard  i.Leaderboard    // Optional.
	Publisher    i.EventPublisher // Optional.
	Logger       i.Logger         // Optional.
	StoreTimeout time.Duration
}

// Player runs the bot: it feeds server answers into the navigation state and sends the
// engine's moves back.
type Player struct {
	opts   PlayerOptions
	engine *navigator.Engine
	state  *navigator.State
	logger i.Logger

	conn             GameConn
	moves            int
	backtracks       int
	wins             int
	losses           int
	exhausted        bool
	exhaustionLogged bool
	sync.Mutex
}

var _ i.PlayerMonitor = &Player{}

func NewPlayer(opts PlayerOptions) (*Player, error) {
	if opts.User == "" {
		return nil, ErrMissingUser
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}

	return &Player{
		opts:   opts,
		engine: navigator.NewEngine(opts.Engine),
		state:  navigator.NewState(),
		logger: l,
	}, nil
}

// Play joins the game on conn and plays until the connection ends or ctx is done. It
// closes conn before returning.
func (p *Player) Play(ctx context.Context, conn GameConn) error {
	p.setConn(conn)
	defer p.setConn(nil)
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	if err := conn.Send(client.Join{User: p.opts.User, Password: p.opts.Password}); err != nil {
		return p.exitErr(ctx, fmt.Errorf("joining as %s: %w", p.opts.User, err))
	}
	p.logger.Info(fmt.Sprintf("joined as %s", p.opts.User))

	for {
		answer, err := conn.ReadAnswer()
		if err != nil {
			return p.exitErr(ctx, err)
		}

		decision, ready, err := p.tick(ctx, answer)
		if err != nil {
			return err
		}
		if !ready || decision.Action == navigator.ActionNone {
			continue
		}

		if err := conn.Send(client.Move{Direction: decision.Direction}); err != nil {
			return p.exitErr(ctx, fmt.Errorf("sending move %s: %w", decision.Direction, err))
		}
	}
}

// DialFunc opens a game connection.
type DialFunc func(ctx context.Context) (GameConn, error)

// Run plays over connections from dial until ctx is done, pausing retry between a lost
// connection and the next dial so a server that drops every session is not hammered.
func (p *Player) Run(ctx context.Context, dial DialFunc, retry time.Duration) error {
	for {
		conn, err := dial(ctx)
		if err != nil {
			return p.exitErr(ctx, fmt.Errorf("dialing game server: %w", err))
		}

		err = p.Play(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, navigator.ErrInvariantViolation) {
			return err
		}
		p.logger.Warning(fmt.Sprintf("game connection ended: %v, reconnecting in %s", err, retry))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

// tick routes one answer and, when the answer is a fresh position, runs the engine.
func (p *Player) tick(ctx context.Context, answer client.Answer) (navigator.Decision, bool, error) {
	switch a := answer.(type) {
	case nil:
		return navigator.Decision{}, false, nil
	case client.Motd:
		p.logger.Warning(fmt.Sprintf("message of the day: %s", a.Message))
	case client.ServerError:
		p.logger.Warning(fmt.Sprintf("server error: %s", a.Message))
	case client.Game:
		p.logger.Info(fmt.Sprintf("game update: %v %v", a.First, a.Second))
	case client.Win:
		p.finishRun(ctx, dmn.OutcomeWin, a.Wins, a.Losses)
	case client.Lose:
		p.finishRun(ctx, dmn.OutcomeLose, a.Wins, a.Losses)
	case client.Goal:
		p.Lock()
		p.state.Apply(navigator.GoalAnnounced{Cell: a.Cell})
		p.moves, p.backtracks = 0, 0
		p.exhausted, p.exhaustionLogged = false, false
		p.Unlock()
		p.logger.Info(fmt.Sprintf("new goal %v", a.Cell))
	case client.Pos:
		return p.observe(a)
	}
	return navigator.Decision{}, false, nil
}

func (p *Player) observe(pos client.Pos) (navigator.Decision, bool, error) {
	p.Lock()
	p.state.Apply(navigator.PositionObserved{Cell: pos.Cell, Walls: pos.Walls})
	if goal, ok := p.state.Goal(); ok && goal == pos.Cell {
		p.Unlock()
		p.logger.Info(fmt.Sprintf("standing on the goal %v", goal))
		return navigator.Decision{}, false, nil
	}

	decision, err := p.engine.Decide(p.state)
	if err != nil {
		p.Unlock()
		return decision, false, fmt.Errorf("deciding at %v: %w", pos.Cell, err)
	}

	logExhaustion := false
	switch decision.Action {
	case navigator.ActionForward:
		p.moves++
	case navigator.ActionBacktrack:
		p.moves++
		p.backtracks++
	case navigator.ActionNone:
		if decision.Exhausted && !p.exhaustionLogged {
			p.exhausted, p.exhaustionLogged = true, true
			logExhaustion = true
		}
	}
	event := tickEvent(p.state.RunID(), pos.Cell, decision)
	p.Unlock()

	if logExhaustion {
		p.logger.Warning(fmt.Sprintf("no route left from %v, waiting for the server", pos.Cell))
	}
	p.logger.Debug(describe(pos, decision))
	if p.opts.Publisher != nil {
		p.opts.Publisher.Publish(event)
	}
	return decision, true, nil
}

func (p *Player) finishRun(ctx context.Context, outcome dmn.Outcome, wins, losses int) {
	p.Lock()
	p.wins, p.losses = wins, losses
	goal, _ := p.state.Goal()
	result := &dmn.RunResult{
		ID:         uuid.New(),
		RunID:      p.state.RunID(),
		User:       p.opts.User,
		Outcome:    outcome,
		Goal:       goal,
		Moves:      p.moves,
		Backtracks: p.backtracks,
		Visited:    p.state.Visited().Len(),
		Wins:       wins,
		Losses:     losses,
		FinishedAt: time.Now().UTC(),
	}
	p.Unlock()

	p.logger.Info(fmt.Sprintf("run %s: %s after %d moves (%d wins, %d losses)", result.RunID, outcome, result.Moves, wins, losses))

	storeCtx, cancel := context.WithTimeout(ctx, p.opts.StoreTimeout)
	defer cancel()
	if p.opts.Results != nil {
		if err := p.opts.Results.Save(storeCtx, result); err != nil {
			p.logger.Error(fmt.Sprintf("saving run %s: %v", result.RunID, err))
		}
	}
	if p.opts.Leaderboard != nil {
		if err := p.opts.Leaderboard.Record(storeCtx, p.opts.User, outcome == dmn.OutcomeWin); err != nil {
			p.logger.Error(fmt.Sprintf("recording run %s on the leaderboard: %v", result.RunID, err))
		}
	}
}

// Snapshot returns the current run status.
func (p *Player) Snapshot() dmn.Status {
	p.Lock()
	defer p.Unlock()

	status := dmn.Status{
		User:       p.opts.User,
		Connected:  p.conn != nil,
		RunID:      p.state.RunID(),
		Visited:    p.state.Visited().Len(),
		Moves:      p.moves,
		Backtracks: p.backtracks,
		Exhausted:  p.exhausted,
		Wins:       p.wins,
		Losses:     p.losses,
	}
	if cur, ok := p.state.Current(); ok {
		status.Current = &cur
	}
	if goal, ok := p.state.Goal(); ok {
		status.Goal = &goal
	}
	return status
}

// Chat sends a chat line to the server.
func (p *Player) Chat(message string) error {
	p.Lock()
	conn := p.conn
	p.Unlock()
	if conn == nil {
		return ErrNotPlaying
	}
	return conn.Send(client.Chat{Message: message})
}

func (p *Player) setConn(conn GameConn) {
	p.Lock()
	defer p.Unlock()
	p.conn = conn
}

// exitErr prefers the context error when the connection was closed by cancellation.
func (p *Player) exitErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func tickEvent(runID uuid.UUID, cell maze.Position, d navigator.Decision) dmn.TickEvent {
	event := dmn.TickEvent{
		RunID:      runID,
		Cell:       cell,
		Action:     d.Action.String(),
		Exhausted:  d.Exhausted,
		Candidates: make([]dmn.CandidateView, 0, len(d.Candidates)),
	}
	if d.Action != navigator.ActionNone {
		event.Direction = d.Direction.String()
	}
	if d.Action == navigator.ActionForward {
		event.Score = d.Score
	}
	for _, c := range d.Candidates {
		event.Candidates = append(event.Candidates, dmn.CandidateView{
			Direction: c.Direction.String(),
			Score:     c.Score,
			Reachable: c.Explored.Reachable,
			Visited:   c.Visited,
			Accepted:  c.Accepted,
		})
	}
	return event
}

func describe(pos client.Pos, d navigator.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "at %v: %s", pos.Cell, d.Action)
	if d.Action != navigator.ActionNone {
		fmt.Fprintf(&b, " %s", d.Direction)
	}
	for _, c := range d.Candidates {
		fmt.Fprintf(&b, " [%s %.3f accepted=%t visited=%t]", c.Direction, c.Score, c.Accepted, c.Visited)
	}
	return b.String()
}

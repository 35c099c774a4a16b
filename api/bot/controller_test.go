package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-bot/domain"
	"github.com/beka-birhanu/vinom-bot/maze"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	status  dmn.Status
	chatErr error
	chats   []string
	sync.Mutex
}

func (f *fakePlayer) Snapshot() dmn.Status { return f.status }

func (f *fakePlayer) Chat(message string) error {
	f.Lock()
	defer f.Unlock()
	if f.chatErr != nil {
		return f.chatErr
	}
	f.chats = append(f.chats, message)
	return nil
}

type fakeResults struct {
	results   []dmn.RunResult
	lastLimit int64
}

func (f *fakeResults) Save(context.Context, *dmn.RunResult) error { return nil }

func (f *fakeResults) Recent(_ context.Context, limit int64) ([]dmn.RunResult, error) {
	f.lastLimit = limit
	return f.results, nil
}

type fakeBoard struct {
	err error
}

func (f *fakeBoard) Record(context.Context, string, bool) error { return nil }

func (f *fakeBoard) Top(_ context.Context, n int64) ([]dmn.Standing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []dmn.Standing{{User: "bot", Wins: 3, Played: 4}}, nil
}

func newEngine(t *testing.T, c *BotController) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1")
	c.RegisterPublic(group)
	c.RegisterProtected(group)
	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestNewBotControllerRequiresPlayer(t *testing.T) {
	_, err := NewBotController(nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingPlayer)
}

func TestStatus(t *testing.T) {
	goal := maze.Position{X: 4, Y: 0}
	player := &fakePlayer{status: dmn.Status{User: "bot", Connected: true, Goal: &goal, Wins: 2}}
	c, err := NewBotController(player, nil, nil, nil)
	require.NoError(t, err)

	rec := serve(newEngine(t, c), http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dmn.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "bot", got.User)
	assert.True(t, got.Connected)
	assert.Equal(t, &goal, got.Goal)
	assert.Nil(t, got.Current)
	assert.Equal(t, 2, got.Wins)
}

func TestLeaderboard(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c, _ := NewBotController(&fakePlayer{}, nil, nil, nil)
		rec := serve(newEngine(t, c), http.MethodGet, "/api/v1/leaderboard", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("top standings", func(t *testing.T) {
		c, _ := NewBotController(&fakePlayer{}, nil, &fakeBoard{}, nil)
		rec := serve(newEngine(t, c), http.MethodGet, "/api/v1/leaderboard?limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []dmn.Standing
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, []dmn.Standing{{User: "bot", Wins: 3, Played: 4}}, got)
	})

	t.Run("invalid limit", func(t *testing.T) {
		c, _ := NewBotController(&fakePlayer{}, nil, &fakeBoard{}, nil)
		rec := serve(newEngine(t, c), http.MethodGet, "/api/v1/leaderboard?limit=1000", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		c, _ := NewBotController(&fakePlayer{}, nil, &fakeBoard{err: errors.New("down")}, nil)
		rec := serve(newEngine(t, c), http.MethodGet, "/api/v1/leaderboard", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRuns(t *testing.T) {
	results := &fakeResults{results: []dmn.RunResult{{ID: uuid.New(), User: "bot", Outcome: dmn.OutcomeWin, Moves: 12}}}
	c, _ := NewBotController(&fakePlayer{}, results, nil, nil)
	engine := newEngine(t, c)

	rec := serve(engine, http.MethodGet, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(defaultListLimit), results.lastLimit)

	var got []dmn.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, dmn.OutcomeWin, got[0].Outcome)

	rec = serve(engine, http.MethodGet, "/api/v1/runs?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), results.lastLimit)
}

func TestChat(t *testing.T) {
	player := &fakePlayer{}
	c, _ := NewBotController(player, nil, nil, nil)
	engine := newEngine(t, c)

	rec := serve(engine, http.MethodPost, "/api/v1/chat", `{"message":"good luck"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"good luck"}, player.chats)

	rec = serve(engine, http.MethodPost, "/api/v1/chat", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(engine, http.MethodPost, "/api/v1/chat", `{"message":"move|up"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, player.chats, 1)

	player.chatErr = errors.New("player is not connected")
	rec = serve(engine, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLiveFeed(t *testing.T) {
	hub := NewHub(nil)
	c, _ := NewBotController(&fakePlayer{}, nil, nil, hub)
	srv := httptest.NewServer(newEngine(t, c))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	event := dmn.TickEvent{
		RunID:     uuid.New(),
		Cell:      maze.Position{X: 1, Y: 2},
		Action:    "forward",
		Direction: "up",
		Score:     0.25,
		Candidates: []dmn.CandidateView{
			{Direction: "up", Score: 0.25, Reachable: true, Accepted: true},
		},
	}
	hub.Publish(event)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got dmn.TickEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, event, got)

	hub.Close()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLiveFeedDisabled(t *testing.T) {
	c, _ := NewBotController(&fakePlayer{}, nil, nil, nil)
	rec := serve(newEngine(t, c), http.MethodGet, "/api/v1/live", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

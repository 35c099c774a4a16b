package botapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-bot/service/i"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 10
)

var (
	ErrMissingPlayer = errors.New("bot controller needs a player")
)

// BotController serves the bot's status, history and live decision feed.
type BotController struct {
	player      i.PlayerMonitor
	results     i.ResultRepo
	leaderboard i.Leaderboard
	hub         *Hub
}

// NewBotController initializes a BotController. Results, leaderboard and hub are optional;
// their endpoints answer 503 when absent.
func NewBotController(p i.PlayerMonitor, rr i.ResultRepo, lb i.Leaderboard, hub *Hub) (*BotController, error) {
	if p == nil {
		return nil, ErrMissingPlayer
	}
	return &BotController{
		player:      p,
		results:     rr,
		leaderboard: lb,
		hub:         hub,
	}, nil
}

// RegisterPublic registers public routes.
func (bc *BotController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/status", bc.status)
	route.GET("/leaderboard", bc.top)
}

// RegisterProtected registers protected routes.
func (bc *BotController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/runs", bc.runs)
	route.POST("/chat", bc.chat)
	route.GET("/live", bc.live)
}

func (bc *BotController) status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, bc.player.Snapshot())
}

func (bc *BotController) top(ctx *gin.Context) {
	if bc.leaderboard == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard disabled"})
		return
	}
	limit, ok := bindLimit(ctx)
	if !ok {
		return
	}

	standings, err := bc.leaderboard.Top(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading the leaderboard"})
		return
	}
	ctx.JSON(http.StatusOK, standings)
}

func (bc *BotController) runs(ctx *gin.Context) {
	if bc.results == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "result history disabled"})
		return
	}
	limit, ok := bindLimit(ctx)
	if !ok {
		return
	}

	results, err := bc.results.Recent(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading results"})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func (bc *BotController) chat(ctx *gin.Context) {
	var request ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// A separator or newline would break the line protocol.
	if strings.ContainsAny(request.Message, "|\r\n") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "message must not contain '|' or line breaks"})
		return
	}

	if err := bc.player.Chat(request.Message); err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusAccepted)
}

func (bc *BotController) live(ctx *gin.Context) {
	if bc.hub == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed disabled"})
		return
	}
	bc.hub.Serve(ctx.Writer, ctx.Request)
}

func bindLimit(ctx *gin.Context) (int64, bool) {
	query := LimitQuery{Limit: defaultListLimit}
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return query.Limit, true
}

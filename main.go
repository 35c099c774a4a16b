package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-bot/api"
	botapi "github.com/beka-birhanu/vinom-bot/api/bot"
	api_i "github.com/beka-birhanu/vinom-bot/api/i"
	apiidentity "github.com/beka-birhanu/vinom-bot/api/identity"
	"github.com/beka-birhanu/vinom-bot/client"
	"github.com/beka-birhanu/vinom-bot/config"
	"github.com/beka-birhanu/vinom-bot/identity"
	"github.com/beka-birhanu/vinom-bot/infrastruture/lock"
	logger "github.com/beka-birhanu/vinom-bot/infrastruture/log"
	"github.com/beka-birhanu/vinom-bot/infrastruture/repo"
	"github.com/beka-birhanu/vinom-bot/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-bot/infrastruture/token"
	"github.com/beka-birhanu/vinom-bot/navigator"
	"github.com/beka-birhanu/vinom-bot/service"
	"github.com/beka-birhanu/vinom-bot/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	keyPrefix         = "vinom-bot"
	resultsCollection = "results"
	startupTimeout    = 10 * time.Second
)

// Global variables for dependencies
var (
	cfg            config.Config
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	resultRepo     i.ResultRepo
	leaderboard    i.Leaderboard
	accountLock    i.AccountLock
	liveHub        *botapi.Hub
	player         *service.Player
	jwtTokenizer   i.Tokenizer
	authService    i.Authenticator
	authController api_i.Controller
	botController  api_i.Controller
	router         *api.Router
	appLogger      *logger.Logger
)

func initConfig(path string) {
	var err error
	cfg, err = config.Load(path)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading config: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Config loaded, playing as %s on %s", cfg.User.User, cfg.Server.Address))
}

func initMongo(ctx context.Context) {
	if cfg.Storage.MongoURI == "" {
		appLogger.Info("MongoDB not configured, result history disabled")
		return
	}

	clientOptions := options.Client().ApplyURI(cfg.Storage.MongoURI)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initResultRepo(ctx context.Context) {
	if mongoClient == nil {
		return
	}
	r := repo.NewResultRepo(mongoClient, cfg.Storage.DBName, resultsCollection)
	if err := r.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Preparing result repository: %v", err))
		os.Exit(1)
	}
	resultRepo = r
	appLogger.Info("Result repository initialized")
}

func initRedis(ctx context.Context) {
	if cfg.Storage.RedisAddr == "" {
		appLogger.Info("Redis not configured, leaderboard and account lock disabled")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.RedisAddr,
		Password: cfg.Storage.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initLeaderboard() {
	if redisClient == nil {
		return
	}
	leaderboard = sortedstorage.NewRedisLeaderboard(redisClient, keyPrefix)
	appLogger.Info("Leaderboard initialized")
}

func initAccountLock(ctx context.Context) {
	if redisClient == nil {
		return
	}
	ttl := time.Duration(cfg.Storage.LockTTLSeconds) * time.Second
	l := lock.NewRedisAccountLock(redisClient, keyPrefix, cfg.User.User, ttl)
	if err := l.Acquire(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Locking account %s: %v", cfg.User.User, err))
		os.Exit(1)
	}
	accountLock = l
	appLogger.Info(fmt.Sprintf("Account %s locked", cfg.User.User))
}

func initLiveHub() {
	hubLogger, err := logger.New("LIVE-FEED", config.ColorPurple, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating live feed logger: %v", err))
		os.Exit(1)
	}
	liveHub = botapi.NewHub(hubLogger)
	appLogger.Info("Live feed initialized")
}

func initPlayer(debug bool) {
	playerLogger, err := logger.New("PLAYER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating player logger: %v", err))
		os.Exit(1)
	}
	playerLogger.SetDebug(debug)

	opts := service.PlayerOptions{
		User:     cfg.User.User,
		Password: cfg.User.Password,
		Engine: navigator.Config{
			HeuristicCut:  cfg.Algorithm.HeuristicCut,
			DeclineLength: cfg.Algorithm.HeuristicDeclineLength,
			DeclineCut:    cfg.Algorithm.HeuristicDeclineCut,
		},
		Logger: playerLogger,
	}
	// Optional dependencies stay nil interfaces when disabled.
	if resultRepo != nil {
		opts.Results = resultRepo
	}
	if leaderboard != nil {
		opts.Leaderboard = leaderboard
	}
	if liveHub != nil {
		opts.Publisher = liveHub
	}

	player, err = service.NewPlayer(opts)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating player: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Player initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(cfg.API.JWTSecret, cfg.API.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	operator, err := identity.NewOperator(cfg.API.User, cfg.API.Password)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating API operator: %v", err))
		os.Exit(1)
	}
	authService, err = service.NewAuthService(operator, jwtTokenizer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = apiidentity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initBotController() {
	var err error
	botController, err = botapi.NewBotController(player, resultRepo, leaderboard, liveHub)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating bot controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Bot controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(cfg.API.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    cfg.API.Addr,
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, botController},
		AuthorizationMiddleware: apiidentity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

// play connects to the game server and plays until ctx is done, reconnecting whenever the
// server drops the connection.
func play(ctx context.Context) {
	clientLogger, err := logger.New("GAME-CLIENT", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game client logger: %v", err))
		os.Exit(1)
	}

	retry := time.Duration(cfg.Server.RetryIntervalMs) * time.Millisecond
	dial := func(ctx context.Context) (service.GameConn, error) {
		conn, err := client.Dial(ctx, cfg.Server.Address,
			client.WithLogger(clientLogger),
			client.WithRetryInterval(retry),
		)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	if err := player.Run(ctx, dial, retry); err != nil && ctx.Err() == nil {
		appLogger.Error(fmt.Sprintf("Playing: %v", err))
	}
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file, empty to use the environment only")
	debug := flag.Bool("debug", false, "log every decision")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	initConfig(*configPath)

	startupCtx, startupCancel := context.WithTimeout(ctx, startupTimeout)
	defer startupCancel()

	initMongo(startupCtx)
	if mongoClient != nil {
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
	}
	initResultRepo(startupCtx)

	initRedis(startupCtx)
	if redisClient != nil {
		defer redisClient.Close()
	}
	initLeaderboard()
	initAccountLock(startupCtx)
	if accountLock != nil {
		defer func() {
			if err := accountLock.Release(context.Background()); err != nil {
				appLogger.Warning(fmt.Sprintf("Releasing account lock: %v", err))
			}
		}()
		ttl := time.Duration(cfg.Storage.LockTTLSeconds) * time.Second
		go lock.KeepAlive(ctx, accountLock, ttl, func(err error) {
			appLogger.Error(fmt.Sprintf("Account lock lost, stopping: %v", err))
			cancel()
		})
	}

	if cfg.API.Addr != "" {
		initLiveHub()
		defer liveHub.Close()
	}
	initPlayer(*debug)

	if cfg.API.Addr != "" {
		initJWTTokenizer()
		initAuthService()
		initAuthController()
		initBotController()
		initRouter(jwtTokenizer)

		// Run HTTP server
		go func() {
			if err := router.Run(ctx); err != nil {
				appLogger.Error(fmt.Sprintf("Starting server: %v", err))
				cancel()
			}
		}()
	}

	play(ctx)
	appLogger.Info("Shutting down")
}

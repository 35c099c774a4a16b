package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultHeuristicCut           = 1.0
	DefaultHeuristicDeclineLength = 0
	DefaultHeuristicDeclineCut    = 1.5
	DefaultRetryIntervalMs        = 200
	DefaultLockTTLSeconds         = 30
	DefaultDBName                 = "vinom_bot"
	DefaultGinMode                = "release"
	DefaultJWTIssuer              = "vinom-bot"
)

var (
	ErrMissingField = errors.New("missing required config field")
	ErrInvalidValue = errors.New("invalid config value")
)

// Config holds the bot's configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	User      UserConfig      `toml:"user"`
	Algorithm AlgorithmConfig `toml:"algorithm"`
	Storage   StorageConfig   `toml:"storage"`
	API       APIConfig       `toml:"api"`
}

type ServerConfig struct {
	Address         string `toml:"address"`           // Game server host:port
	RetryIntervalMs int    `toml:"retry_interval_ms"` // Pause between connection attempts
}

type UserConfig struct {
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type AlgorithmConfig struct {
	HeuristicCut           float64 `toml:"heuristic_cut"`
	HeuristicDeclineLength int     `toml:"heuristic_decline_length"`
	HeuristicDeclineCut    float64 `toml:"heuristic_decline_cut"`
}

// StorageConfig is optional; empty addresses disable the matching store.
type StorageConfig struct {
	MongoURI       string `toml:"mongo_uri"`
	DBName         string `toml:"db_name"`
	RedisAddr      string `toml:"redis_addr"`
	RedisPassword  string `toml:"redis_password"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

// APIConfig is optional; an empty address disables the HTTP API.
type APIConfig struct {
	Addr      string `toml:"addr"`
	GinMode   string `toml:"gin_mode"`
	JWTSecret string `toml:"jwt_secret"`
	JWTIssuer string `toml:"jwt_issuer"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
}

// Default returns a configuration with every optional value filled in.
func Default() Config {
	return Config{
		Server: ServerConfig{RetryIntervalMs: DefaultRetryIntervalMs},
		Algorithm: AlgorithmConfig{
			HeuristicCut:           DefaultHeuristicCut,
			HeuristicDeclineLength: DefaultHeuristicDeclineLength,
			HeuristicDeclineCut:    DefaultHeuristicDeclineCut,
		},
		Storage: StorageConfig{DBName: DefaultDBName, LockTTLSeconds: DefaultLockTTLSeconds},
		API:     APIConfig{GinMode: DefaultGinMode, JWTIssuer: DefaultJWTIssuer},
	}
}

// Load reads the TOML file at path, then the .env file if present, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidValue, path, err)
		}
	}

	// Variables already set in the environment win over the .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks required fields and value ranges.
func (c Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server.address", ErrMissingField)
	}
	if c.User.User == "" {
		return fmt.Errorf("%w: user.user", ErrMissingField)
	}
	if c.Algorithm.HeuristicDeclineLength < 0 {
		return fmt.Errorf("%w: algorithm.heuristic_decline_length must not be negative", ErrInvalidValue)
	}
	if c.API.Addr != "" && (c.API.JWTSecret == "" || c.API.User == "" || c.API.Password == "") {
		return fmt.Errorf("%w: api.jwt_secret, api.user and api.password are needed to serve the API", ErrMissingField)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"MAZE_SERVER_ADDR": &cfg.Server.Address,
		"MAZE_USER":        &cfg.User.User,
		"MAZE_PASSWORD":    &cfg.User.Password,
		"MONGO_URI":        &cfg.Storage.MongoURI,
		"DB_NAME":          &cfg.Storage.DBName,
		"REDIS_ADDR":       &cfg.Storage.RedisAddr,
		"REDIS_PASSWORD":   &cfg.Storage.RedisPassword,
		"REST_ADDR":        &cfg.API.Addr,
		"GIN_MODE":         &cfg.API.GinMode,
		"JWT_SECRET":       &cfg.API.JWTSecret,
		"JWT_ISSUER":       &cfg.API.JWTIssuer,
		"API_USER":         &cfg.API.User,
		"API_PASSWORD":     &cfg.API.Password,
	}
	for key, dst := range strs {
		if value, exists := os.LookupEnv(key); exists {
			*dst = value
		}
	}

	ints := map[string]*int{
		"HEURISTIC_DECLINE_LENGTH": &cfg.Algorithm.HeuristicDeclineLength,
		"RETRY_INTERVAL_MS":        &cfg.Server.RetryIntervalMs,
		"LOCK_TTL_SECONDS":         &cfg.Storage.LockTTLSeconds,
	}
	for key, dst := range ints {
		value, exists := os.LookupEnv(key)
		if !exists {
			continue
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: environment variable %s must be an integer: %w", ErrInvalidValue, key, err)
		}
		*dst = v
	}

	floats := map[string]*float64{
		"HEURISTIC_CUT":         &cfg.Algorithm.HeuristicCut,
		"HEURISTIC_DECLINE_CUT": &cfg.Algorithm.HeuristicDeclineCut,
	}
	for key, dst := range floats {
		value, exists := os.LookupEnv(key)
		if !exists {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: environment variable %s must be a number: %w", ErrInvalidValue, key, err)
		}
		*dst = v
	}
	return nil
}

package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cbodonnell/bullseye/pkg/game/constants"
	"github.com/cbodonnell/bullseye/pkg/game/targets"
	"github.com/cbodonnell/bullseye/pkg/log"
	"gopkg.in/yaml.v3"
)

const (
	AuthProviderNone     = "none"
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

// Config is the server configuration. Values are read from the defaults, then
// an optional YAML file, then BULLSEYE_* environment variables, then flags.
type Config struct {
	Port           int            `yaml:"port"`
	LogLevel       string         `yaml:"logLevel"`
	StaticDir      string         `yaml:"staticDir"`
	AllowedOrigins []string       `yaml:"allowedOrigins"`
	TLS            TLSConfig      `yaml:"tls"`
	Database       DatabaseConfig `yaml:"database"`
	Auth           AuthConfig     `yaml:"auth"`
	Game           GameConfig     `yaml:"game"`
	Network        NetworkConfig  `yaml:"network"`
}

type TLSConfig struct {
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
}

// Enabled reports whether both TLS files are configured.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

type DatabaseConfig struct {
	// URL is memory://, sqlite://<path> or postgresql://<dsn>
	URL           string        `yaml:"url"`
	MigrationsDir string        `yaml:"migrationsDir"`
	SaveInterval  time.Duration `yaml:"saveInterval"`
}

type AuthConfig struct {
	// Provider is one of none, local or firebase
	Provider          string        `yaml:"provider"`
	TokenTTL          time.Duration `yaml:"tokenTTL"`
	FirebaseProjectID string        `yaml:"firebaseProjectID"`
	FirebaseAPIKey    string        `yaml:"firebaseAPIKey"`

	// FirebaseCredentialsFile is a service account file, used instead of the API key when set
	FirebaseCredentialsFile string `yaml:"firebaseCredentialsFile"`
}

type GameConfig struct {
	Width           float64       `yaml:"width"`
	Height          float64       `yaml:"height"`
	SpawnMargin     float64       `yaml:"spawnMargin"`
	MinRadius       float64       `yaml:"minRadius"`
	MaxRadius       float64       `yaml:"maxRadius"`
	MaxSpeed        float64       `yaml:"maxSpeed"`
	SpawnAttempts   int           `yaml:"spawnAttempts"`
	InitialTargets  int           `yaml:"initialTargets"`
	MaxTargets      int           `yaml:"maxTargets"`
	TickRate        int           `yaml:"tickRate"`
	SpawnInterval   time.Duration `yaml:"spawnInterval"`
	RespawnDelay    time.Duration `yaml:"respawnDelay"`
	LeaderboardSize int           `yaml:"leaderboardSize"`
}

// TickInterval returns the duration of one simulation tick.
func (c GameConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// TargetOptions returns the target store options for the arena.
func (c GameConfig) TargetOptions() targets.Options {
	return targets.Options{
		Width:         c.Width,
		Height:        c.Height,
		SpawnMargin:   c.SpawnMargin,
		MinRadius:     c.MinRadius,
		MaxRadius:     c.MaxRadius,
		MaxSpeed:      c.MaxSpeed,
		SpawnAttempts: c.SpawnAttempts,
	}
}

type NetworkConfig struct {
	ReadLimit         int64         `yaml:"readLimit"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
	OutboxSize        int           `yaml:"outboxSize"`
	MessagesPerSecond float64       `yaml:"messagesPerSecond"`
	MessageBurst      int           `yaml:"messageBurst"`
	QueueSize         int           `yaml:"queueSize"`
}

// Default returns the configuration of the standard arena.
func Default() *Config {
	return &Config{
		Port:           3000,
		LogLevel:       log.LogLevelInfo.String(),
		StaticDir:      "public",
		AllowedOrigins: []string{"*"},
		Database: DatabaseConfig{
			URL:           "sqlite://bullseye.db",
			MigrationsDir: "migrations",
			SaveInterval:  2 * time.Second,
		},
		Auth: AuthConfig{
			Provider: AuthProviderNone,
			TokenTTL: 24 * time.Hour,
		},
		Game: GameConfig{
			Width:           constants.ArenaWidth,
			Height:          constants.ArenaHeight,
			SpawnMargin:     constants.ArenaSpawnMargin,
			MinRadius:       constants.TargetMinRadius,
			MaxRadius:       constants.TargetMaxRadius,
			MaxSpeed:        constants.TargetMaxSpeed,
			SpawnAttempts:   constants.TargetSpawnAttempts,
			InitialTargets:  constants.InitialTargets,
			MaxTargets:      constants.MaxTargets,
			TickRate:        constants.TickRate,
			SpawnInterval:   constants.SpawnInterval,
			RespawnDelay:    constants.RespawnDelay,
			LeaderboardSize: constants.LeaderboardSize,
		},
		Network: NetworkConfig{
			ReadLimit:         4096,
			WriteTimeout:      5 * time.Second,
			HeartbeatInterval: 15 * time.Second,
			OutboxSize:        256,
			MessagesPerSecond: 30,
			MessageBurst:      60,
			QueueSize:         10000,
		},
	}
}

// Load builds the configuration from args (without the program name) and the
// environment looked up with getenv.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("bullseye", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to a YAML config file")
	port := fs.Int("port", cfg.Port, "Port to listen on")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level")
	staticDir := fs.String("static-dir", cfg.StaticDir, "Directory of static client files")
	databaseURL := fs.String("db", cfg.Database.URL, "Database URL (memory://, sqlite://, postgresql://)")
	authProvider := fs.String("auth", cfg.Auth.Provider, "Auth provider (none, local, firebase)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "log-level":
			cfg.LogLevel = *logLevel
		case "static-dir":
			cfg.StaticDir = *staticDir
		case "db":
			cfg.Database.URL = *databaseURL
		case "auth":
			cfg.Auth.Provider = *authProvider
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	strs := map[string]*string{
		"BULLSEYE_DATABASE_URL":         &c.Database.URL,
		"BULLSEYE_AUTH_PROVIDER":        &c.Auth.Provider,
		"BULLSEYE_FIREBASE_PROJECT_ID":  &c.Auth.FirebaseProjectID,
		"BULLSEYE_FIREBASE_API_KEY":     &c.Auth.FirebaseAPIKey,
		"BULLSEYE_FIREBASE_CREDENTIALS": &c.Auth.FirebaseCredentialsFile,
		"BULLSEYE_TLS_CERT_FILE":        &c.TLS.CertFile,
		"BULLSEYE_TLS_KEY_FILE":         &c.TLS.KeyFile,
		"BULLSEYE_LOG_LEVEL":            &c.LogLevel,
		"BULLSEYE_STATIC_DIR":           &c.StaticDir,
	}
	for key, target := range strs {
		if v := getenv(key); v != "" {
			*target = v
		}
	}
	if v := getenv("BULLSEYE_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %v", v, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Auth.Provider {
	case AuthProviderNone, AuthProviderLocal:
	case AuthProviderFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("firebase auth requires a project id")
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}
	if c.Auth.Provider == AuthProviderLocal && c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("tls requires both a cert file and a key file")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Database.SaveInterval <= 0 {
		return fmt.Errorf("save interval must be positive")
	}

	g := c.Game
	if err := g.TargetOptions().Validate(); err != nil {
		return err
	}
	if g.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", g.TickRate)
	}
	if g.InitialTargets < 0 {
		return fmt.Errorf("initial targets must not be negative")
	}
	if g.MaxTargets < 1 {
		return fmt.Errorf("max targets must be at least 1, got %d", g.MaxTargets)
	}
	if g.LeaderboardSize < 1 {
		return fmt.Errorf("leaderboard size must be at least 1, got %d", g.LeaderboardSize)
	}
	if g.SpawnInterval <= 0 {
		return fmt.Errorf("spawn interval must be positive")
	}
	if g.RespawnDelay < 0 {
		return fmt.Errorf("respawn delay must not be negative")
	}

	n := c.Network
	if n.ReadLimit <= 0 {
		return fmt.Errorf("read limit must be positive")
	}
	if n.OutboxSize < 1 {
		return fmt.Errorf("outbox size must be at least 1")
	}
	if n.MessagesPerSecond < 0 {
		return fmt.Errorf("messages per second must not be negative")
	}
	return nil
}

package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/joho/godotenv"
)

// StoreURIEnv names the environment variable holding the backing-store connection string.
const StoreURIEnv = "STORE_URI"

// DefaultStoreURI points at a local Redis instance.
const DefaultStoreURI = "redis://localhost:6379/0"

// Config holds file store service configuration
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	App     AppConfig     `json:"app" yaml:"app"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Sweeper SweeperConfig `json:"sweeper" yaml:"sweeper"`
	Logger  logger.Config `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	Addr          string `json:"addr" yaml:"addr"`
	IdleTimeoutMS int    `json:"idle_timeout_ms" yaml:"idle_timeout_ms"`
}

type AppConfig struct {
	NodeID         int64 `json:"node_id" yaml:"node_id"`
	ChunkSize      int64 `json:"chunk_size" yaml:"chunk_size"`
	MaxFileSize    int64 `json:"max_file_size" yaml:"max_file_size"`
	ChunkTimeoutMS int   `json:"chunk_timeout_ms" yaml:"chunk_timeout_ms"`
	NameAttempts   int   `json:"name_attempts" yaml:"name_attempts"`
}

type StoreConfig struct {
	URI         string         `json:"uri" yaml:"uri"`
	Bucket      string         `json:"bucket" yaml:"bucket"`
	Compression bool           `json:"compression" yaml:"compression"`
	Breaker     BreakerConfig  `json:"breaker" yaml:"breaker"`
	Postgres    PostgresConfig `json:"postgres" yaml:"postgres"`
}

type BreakerConfig struct {
	FailureThreshold int `json:"failure_threshold" yaml:"failure_threshold"`
	OpenTimeoutMS    int `json:"open_timeout_ms" yaml:"open_timeout_ms"`
}

type PostgresConfig struct {
	MaxConns int32 `json:"max_conns" yaml:"max_conns"`
	Migrate  bool  `json:"migrate" yaml:"migrate"`
}

type SweeperConfig struct {
	Enabled        bool `json:"enabled" yaml:"enabled"`
	IntervalSec    int  `json:"interval_sec" yaml:"interval_sec"`
	GracePeriodSec int  `json:"grace_period_sec" yaml:"grace_period_sec"`
	Workers        int  `json:"workers" yaml:"workers"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":5000",
			IdleTimeoutMS: 60000,
		},
		App: AppConfig{
			NodeID:         1,
			ChunkSize:      256 * 1024,             // 256KB
			MaxFileSize:    2 * 1024 * 1024 * 1024, // 2GB
			ChunkTimeoutMS: 15000,
			NameAttempts:   3,
		},
		Store: StoreConfig{
			URI:    DefaultStoreURI,
			Bucket: "uploads",
			Breaker: BreakerConfig{
				FailureThreshold: 5,
				OpenTimeoutMS:    5000,
			},
			Postgres: PostgresConfig{
				MaxConns: 10,
				Migrate:  true,
			},
		},
		Sweeper: SweeperConfig{
			Enabled:        true,
			IntervalSec:    600,
			GracePeriodSec: 3600,
			Workers:        4,
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Load loads configuration from file, then applies the STORE_URI override.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v", err)
	}

	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		log.Printf("Config file not found or failed to parse, using defaults if file not specified. Path: %s, Error: %v", configPath, err)
		if path != "" {
			return nil, err
		}
		parsedCfg = cfg
	}

	parsedCfg.applyEnv()
	return parsedCfg, nil
}

// MustLoad loads configuration or exits on error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) applyEnv() {
	if uri := os.Getenv(StoreURIEnv); uri != "" {
		c.Store.URI = uri
	}
	if c.Store.URI == "" {
		c.Store.URI = DefaultStoreURI
	}
}

// ChunkTimeout bounds a single chunk read or write against the store.
func (c *Config) ChunkTimeout() time.Duration {
	if c.App.ChunkTimeoutMS > 0 {
		return time.Duration(c.App.ChunkTimeoutMS) * time.Millisecond
	}
	return 15 * time.Second
}

// IdleTimeout is the keep-alive idle timeout of the HTTP server.
func (c *Config) IdleTimeout() time.Duration {
	if c.Server.IdleTimeoutMS > 0 {
		return time.Duration(c.Server.IdleTimeoutMS) * time.Millisecond
	}
	return time.Minute
}

// SweepInterval is the period between orphan sweeps.
func (c *Config) SweepInterval() time.Duration {
	if c.Sweeper.IntervalSec > 0 {
		return time.Duration(c.Sweeper.IntervalSec) * time.Second
	}
	return 10 * time.Minute
}

// SweepGracePeriod is the minimum age of a chunk set before it may be reclaimed.
func (c *Config) SweepGracePeriod() time.Duration {
	if c.Sweeper.GracePeriodSec > 0 {
		return time.Duration(c.Sweeper.GracePeriodSec) * time.Second
	}
	return time.Hour
}

// BreakerOpenTimeout is how long the store circuit stays open after tripping.
func (c *Config) BreakerOpenTimeout() time.Duration {
	if c.Store.Breaker.OpenTimeoutMS > 0 {
		return time.Duration(c.Store.Breaker.OpenTimeoutMS) * time.Millisecond
	}
	return 5 * time.Second
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultEnvFile = "./configs/.env"

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendNone     = "none"
)

var (
	once     sync.Once
	instance *Config
)

type Config struct {
	APIAddress string `env:"API_ADDRESS" envDefault:"127.0.0.1:8080"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	StorageKey     string `env:"STORAGE_KEY" envDefault:"daily-execution-data"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/daily-execution.db"`

	PostgresAddress  string `env:"POSTGRES_DB_ADDRESS" envDefault:"127.0.0.1:5432"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	MigrationsDir    string `env:"MIGRATIONS_DIR" envDefault:"migrations"`

	RedisAddress  string `env:"REDIS_ADDRESS" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New loads the process configuration once. Any error is fatal.
func New() *Config {
	once.Do(func() {
		cfg, err := Load(DefaultEnvFile)
		if err != nil {
			log.Fatal("loading config error: ", err)
		}
		instance = cfg
	})
	return instance
}

// Load applies envFile on top of the environment when it exists and parses the result.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StorageBackend {
	case BackendSQLite, BackendPostgres, BackendRedis, BackendNone:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	return &cfg, nil
}

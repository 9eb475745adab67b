package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	StorageDriver   string        `envconfig:"STORAGE_DRIVER"      default:"postgres"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	HTTPPort        string        `envconfig:"HTTP_PORT"           default:":8081"`
	GrpcPort        string        `envconfig:"GRPC_PORT"           default:":50051"`
	LogLevel        string        `envconfig:"LOG_LEVEL"           default:"info"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS"   default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS"   default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT"    default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: Driver=%s, HTTP Port=%s, GRPC Port=%s, LogLevel=%s",
		cfg.StorageDriver, cfg.HTTPPort, cfg.GrpcPort, cfg.LogLevel)
	if cfg.DatabaseURL != "" {
		logger.Info("Configuration loaded: DatabaseURL is set")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("configuration error: DATABASE_URL is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("configuration error: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

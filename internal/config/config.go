package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/burbla/burbla-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	AgentConnectorCfg  AgentConnectorConfig  `envPrefix:"AGENT_"`
	PlacesConnectorCfg PlacesConnectorConfig `envPrefix:"PLACES_"`

	// Response normalizer retry policy
	NormalizerRetry pkgRetry.RetryConfig `envPrefix:"NORMALIZER_RETRY_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// AgentConnectorConfig holds the Gemini agent settings.
type AgentConnectorConfig struct {
	APIKey        string  `env:"API_KEY"`
	Model         string  `env:"MODEL" envDefault:"gemini-2.0-flash"`
	Temperature   float32 `env:"TEMPERATURE" envDefault:"0.7"`
	MaxToolRounds int     `env:"MAX_TOOL_ROUNDS" envDefault:"8"`
	SystemPrompt  string  `env:"SYSTEM_PROMPT"`
}

// PlacesConnectorConfig holds the Google Places and Distance Matrix settings.
type PlacesConnectorConfig struct {
	HTTPClientConfig
	APIKey            string               `env:"API_KEY"`
	DistanceMatrixURL string               `env:"DISTANCE_MATRIX_URL" envDefault:"https://maps.googleapis.com/maps/api/distancematrix/json"`
	MaxResults        int                  `env:"MAX_RESULTS" envDefault:"5"`
	DetailsCacheTTL   time.Duration        `env:"DETAILS_CACHE_TTL" envDefault:"10m"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://places.googleapis.com"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.AgentConnectorCfg.MaxToolRounds < 1 || cfg.AgentConnectorCfg.MaxToolRounds > 32 {
		return fmt.Errorf("AGENT_MAX_TOOL_ROUNDS must be between 1 and 32, got %d", cfg.AgentConnectorCfg.MaxToolRounds)
	}
	if cfg.PlacesConnectorCfg.MaxResults < 1 || cfg.PlacesConnectorCfg.MaxResults > 20 {
		return fmt.Errorf("PLACES_MAX_RESULTS must be between 1 and 20, got %d", cfg.PlacesConnectorCfg.MaxResults)
	}
	if !cfg.EnableMocks {
		if cfg.AgentConnectorCfg.APIKey == "" {
			return fmt.Errorf("AGENT_API_KEY is required when mocks are disabled")
		}
		if cfg.PlacesConnectorCfg.APIKey == "" {
			return fmt.Errorf("PLACES_API_KEY is required when mocks are disabled")
		}
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}

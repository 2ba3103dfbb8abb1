package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
}

// EngineConfig holds the attendance engine's operational parameters.
type EngineConfig struct {
	// TimezoneOffsetMinutes is the fixed local offset east of UTC. No DST.
	TimezoneOffsetMinutes int
	// AccessEventType tags the device event subtype that counts as a punch.
	AccessEventType string
	// FirstNightShiftCode / SecondNightShiftCode drive the Saturday
	// substitution rule for the night-shift rotation.
	FirstNightShiftCode  string
	SecondNightShiftCode string
	// DefaultGraceMinutes applies when a shift definition carries no grace period.
	DefaultGraceMinutes int
	// RecomputeInterval is how often the scheduled payroll recompute wakes up.
	RecomputeInterval time.Duration
	// BatchWorkers bounds per-employee parallelism in batch passes.
	BatchWorkers int
}

func Load() (*Config, error) {
	// A missing .env is fine in deployed environments; env vars win anyway.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	tzOffset, err := strconv.Atoi(getEnv("TZ_OFFSET_MINUTES", "330"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_OFFSET_MINUTES: %w", err)
	}

	graceMinutes, err := strconv.Atoi(getEnv("DEFAULT_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_GRACE_MINUTES: %w", err)
	}

	recomputeInterval, err := time.ParseDuration(getEnv("RECOMPUTE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECOMPUTE_INTERVAL: %w", err)
	}

	batchWorkers, err := strconv.Atoi(getEnv("BATCH_WORKERS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_WORKERS: %w", err)
	}

	config.Engine = EngineConfig{
		TimezoneOffsetMinutes: tzOffset,
		AccessEventType:       getEnv("ACCESS_EVENT_TYPE", "access"),
		FirstNightShiftCode:   getEnv("FIRST_NIGHT_SHIFT_CODE", "N1"),
		SecondNightShiftCode:  getEnv("SECOND_NIGHT_SHIFT_CODE", "N2"),
		DefaultGraceMinutes:   graceMinutes,
		RecomputeInterval:     recomputeInterval,
		BatchWorkers:          batchWorkers,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Engine.AccessEventType == "" {
		return fmt.Errorf("ACCESS_EVENT_TYPE is required")
	}
	if c.Engine.BatchWorkers < 1 {
		return fmt.Errorf("BATCH_WORKERS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Operator configuration
	GameAdminID int64 // account allowed to run operator-only operations

	// Game settings
	StartingBalance int64

	// Round timing
	MinRoundDuration      time.Duration // minimum time a round accepts bets
	MinBetsClosedDuration time.Duration // minimum time between closing bets and resolving
	MinNewRoundDelay      time.Duration // minimum time between resolving and the next round
	RoundWorkerInterval   time.Duration // how often the round worker ticks

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Game settings with defaults
		StartingBalance: 100000,

		// Round timing defaults
		MinRoundDuration:      60 * time.Second,
		MinBetsClosedDuration: 30 * time.Second,
		MinNewRoundDelay:      30 * time.Second,
		RoundWorkerInterval:   5 * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}
	if adminID := os.Getenv("GAME_ADMIN_ID"); adminID != "" {
		if parsedID, err := strconv.ParseInt(adminID, 10, 64); err == nil {
			config.GameAdminID = parsedID
		}
	}
	if seconds := os.Getenv("MIN_ROUND_DURATION_SECONDS"); seconds != "" {
		if parsed, err := strconv.Atoi(seconds); err == nil {
			config.MinRoundDuration = time.Duration(parsed) * time.Second
		}
	}
	if seconds := os.Getenv("MIN_BETS_CLOSED_DURATION_SECONDS"); seconds != "" {
		if parsed, err := strconv.Atoi(seconds); err == nil {
			config.MinBetsClosedDuration = time.Duration(parsed) * time.Second
		}
	}
	if seconds := os.Getenv("MIN_NEW_ROUND_DELAY_SECONDS"); seconds != "" {
		if parsed, err := strconv.Atoi(seconds); err == nil {
			config.MinNewRoundDelay = time.Duration(parsed) * time.Second
		}
	}
	if seconds := os.Getenv("ROUND_WORKER_INTERVAL_SECONDS"); seconds != "" {
		if parsed, err := strconv.Atoi(seconds); err == nil {
			config.RoundWorkerInterval = time.Duration(parsed) * time.Second
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr string

	// Credit engine configuration
	StartingBalance     int64
	SessionRewardAmount int64

	// Cancellation policy. The venue historically flip-flopped on whether
	// cancelling a session costs the host credits and streak; it is an
	// explicit switch here, off by default.
	CancellationPenaltyEnabled bool
	CancellationPenaltyAmount  int64

	// Venue defaults used when no config row exists yet
	VenueMaxCapacity int
	VenueMaxTables   int
	VenueOpenHour    int
	VenueCloseHour   int

	// Environment
	Environment string // "development", "production" or "test"
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
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr: ":8080",

		// Credit engine defaults
		StartingBalance:     0,
		SessionRewardAmount: 10,

		CancellationPenaltyEnabled: os.Getenv("CANCELLATION_PENALTY_ENABLED") == "true",
		CancellationPenaltyAmount:  25,

		// Venue defaults
		VenueMaxCapacity: 40,
		VenueMaxTables:   10,
		VenueOpenHour:    10,
		VenueCloseHour:   23,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		config.HTTPAddr = addr
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if reward := os.Getenv("SESSION_REWARD_AMOUNT"); reward != "" {
		if parsed, err := strconv.ParseInt(reward, 10, 64); err == nil {
			config.SessionRewardAmount = parsed
		}
	}
	if penalty := os.Getenv("CANCELLATION_PENALTY_AMOUNT"); penalty != "" {
		if parsed, err := strconv.ParseInt(penalty, 10, 64); err == nil {
			config.CancellationPenaltyAmount = parsed
		}
	}
	if capacity := os.Getenv("VENUE_MAX_CAPACITY"); capacity != "" {
		if parsed, err := strconv.Atoi(capacity); err == nil && parsed > 0 {
			config.VenueMaxCapacity = parsed
		}
	}
	if tables := os.Getenv("VENUE_MAX_TABLES"); tables != "" {
		if parsed, err := strconv.Atoi(tables); err == nil && parsed > 0 {
			config.VenueMaxTables = parsed
		}
	}
	if open := os.Getenv("VENUE_OPEN_HOUR"); open != "" {
		if parsed, err := strconv.Atoi(open); err == nil {
			config.VenueOpenHour = parsed
		}
	}
	if closeHour := os.Getenv("VENUE_CLOSE_HOUR"); closeHour != "" {
		if parsed, err := strconv.Atoi(closeHour); err == nil {
			config.VenueCloseHour = parsed
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

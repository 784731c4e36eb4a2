package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, loaded once at startup.
type Config struct {
	ServerAddr  string
	DatabaseURL string

	// PricingStrategy selects the rental pricing algorithm: daily, weekly or tiered.
	PricingStrategy string

	// DefaultRentalDays is used when a rental request does not name a loan period.
	DefaultRentalDays int

	// OverdueSweepSchedule is a cron expression for the background overdue sweep.
	OverdueSweepSchedule string

	// OverdueWebhookURL, when set, receives a POST for every overdue alert.
	OverdueWebhookURL string
}

// Load reads configuration from a .env file and environment variables. A missing
// .env file is not an error outside development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] config: no .env file, using environment variables")
	}

	cfg := &Config{
		ServerAddr:           getEnv("SERVER_ADDR", ":8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		PricingStrategy:      getEnv("PRICING_STRATEGY", "daily"),
		DefaultRentalDays:    getEnvInt("DEFAULT_RENTAL_DAYS", 14),
		OverdueSweepSchedule: getEnv("OVERDUE_SWEEP_SCHEDULE", "30 8 * * *"),
		OverdueWebhookURL:    os.Getenv("OVERDUE_WEBHOOK_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.DefaultRentalDays < 1 {
		return nil, fmt.Errorf("DEFAULT_RENTAL_DAYS must be at least 1, got %d", cfg.DefaultRentalDays)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

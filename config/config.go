package config

import (
	"os"
	"strconv"
	"time"

	"fxpredict/models"
)

// Load builds the runtime configuration from environment variables, falling
// back to code defaults for anything unset or unparsable. There is no
// configuration file: the service is configured the same way it is deployed,
// through the environment.
func Load() *models.Config {
	return &models.Config{
		Port:            envInt("PORT", 8080),
		LogLevel:        envString("LOG_LEVEL", "info"),
		HistoryDays:     envInt("HISTORY_DAYS", 30),
		RateLimitRPS:    envFloat("RATE_LIMIT_RPS", 1.7),
		RateLimitBurst:  envInt("RATE_LIMIT_BURST", 20),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process-level settings read from the environment.
type Config struct {
	Port              string
	RedisURL          string
	LogMode           string
	MaxItemsPerTopic  int
	MaxRecipeLines    int
	CacheTTL          time.Duration
	GenerateRateLimit int64
	GenerateWindow    time.Duration
	MaxQualityBytes   int64
	SettingsPath      string
	PoolsPath         string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "4000"),
		RedisURL:          getEnv("REDIS_URL", ""),
		LogMode:           getEnv("LOG_MODE", "dev"),
		MaxItemsPerTopic:  getEnvInt("MAX_ITEMS_PER_TOPIC", 500),
		MaxRecipeLines:    getEnvInt("MAX_RECIPE_LINES", 50),
		CacheTTL:          getEnvDuration("CACHE_TTL", 24*time.Hour),
		GenerateRateLimit: int64(getEnvInt("GENERATE_RATE_LIMIT", 10)),
		GenerateWindow:    getEnvDuration("GENERATE_RATE_WINDOW", time.Minute),
		MaxQualityBytes:   int64(getEnvInt("MAX_QUALITY_BYTES", 32<<20)),
		SettingsPath:      getEnv("GENERATION_SETTINGS", ""),
		PoolsPath:         getEnv("GENERATION_POOLS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

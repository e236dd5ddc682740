package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// AI provider settings
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	ChatModel      string // free-text conversation endpoints
	AnalysisModel  string // structured JSON endpoints (grammar, TOEIC, feedback)
	RequestTimeout time.Duration

	// Progress store: "memory", "sqlite", "postgres", "mysql" or "redis"
	StoreType      string
	DatabasePath   string
	DatabaseURL    string
	RedisAddr      string
	MigrationsPath string

	// Rate limiting for AI-backed routes
	RateLimit       int
	RateLimitWindow time.Duration

	UploadMaxSize int64
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:       getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		AnalysisModel:   getEnv("ANALYSIS_MODEL", "gpt-4o"),
		RequestTimeout:  getDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
		StoreType:       getEnv("STORE_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./talktalk.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		RateLimit:       getInt("RATE_LIMIT", 30),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Minute),
		UploadMaxSize:   10 * 1024 * 1024, // 10MB audio uploads
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt reads an integer environment variable or returns a default value
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getDuration reads a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

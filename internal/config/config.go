package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	MongoURI string
	RedisURL string

	// Asset storage root for generated images
	AssetDir string

	// Local JWT auth
	JWTSecret string

	// Text provider (OpenAI-compatible chat completions)
	OpenAIBaseURL     string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float64

	// Image providers
	GoogleBaseURL  string
	GoogleAPIKey   string
	GoogleModel    string
	FalBaseURL     string
	FalKey         string
	FalModel       string
	ReplicateBase  string
	ReplicateToken string
	ReplicateModel string

	// Default image generation provider tag: google, fal, or replicate
	DefaultImageProvider string

	// Stuck generation reporter
	StuckReportCron string
	StuckThreshold  time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3001"),
		MongoURI: getEnv("MONGODB_URI", ""),
		RedisURL: getEnv("REDIS_URL", ""),

		AssetDir: getEnv("ASSET_DIR", "./uploads"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAITemperature: getFloatEnv("OPENAI_TEMPERATURE", 0.7),

		GoogleBaseURL:  getEnv("GOOGLE_IMAGE_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
		GoogleModel:    getEnv("GOOGLE_IMAGE_MODEL", "imagen-3.0-generate-002"),
		FalBaseURL:     getEnv("FAL_BASE_URL", "https://fal.run"),
		FalKey:         getEnv("FAL_KEY", ""),
		FalModel:       getEnv("FAL_MODEL", "fal-ai/flux/schnell"),
		ReplicateBase:  getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		ReplicateToken: getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateModel: getEnv("REPLICATE_MODEL", "black-forest-labs/flux-schnell"),

		DefaultImageProvider: getEnv("DEFAULT_IMAGE_PROVIDER", "google"),

		StuckReportCron: getEnv("STUCK_REPORT_CRON", "*/10 * * * *"),
		StuckThreshold:  getDurationEnv("STUCK_THRESHOLD", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

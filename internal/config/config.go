// Package config loads service configuration from the environment once at
// startup. The resulting Config is immutable and passed into each component
// instead of being read ad hoc from the process environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs, fixed at process start.
type Config struct {
	Port        string
	APIKey      string
	Model       string
	UploadDir   string
	CORSOrigins string

	MaxFileBytes int64
	MinTextLen   int

	GeminiTimeout    time.Duration
	GeminiMaxRetries int

	RedisURL      string
	RedisPassword string
	RedisDB       int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		APIKey:           getEnv("GOOGLE_API_KEY", ""),
		Model:            getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		UploadDir:        getEnv("UPLOAD_DIR", ".uploads"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		MaxFileBytes:     getEnvInt64("MAX_FILE_BYTES", 15*1024*1024),
		MinTextLen:       getEnvInt("MIN_TEXT_LEN", 10),
		GeminiTimeout:    time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 90)) * time.Second,
		GeminiMaxRetries: getEnvInt("GEMINI_MAX_RETRIES", 3),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
	}

	if cfg.APIKey == "" {
		log.Println("Warning: GOOGLE_API_KEY not configured, generation requests will fail")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

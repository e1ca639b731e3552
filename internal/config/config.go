package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPListenAddr string
	StaticDir      string

	UsersFile      string
	EmbedCachePath string
	DatabaseURL    string

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	EmbedModel      string
	GenModel        string
	GenerateAnswers bool
	EmbedTimeout    time.Duration
	GenTimeout      time.Duration

	MetricsNamespace string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	QuestionRateLimit  int64
	QuestionRateWindow time.Duration
}

// Load returns configuration populated from environment variables with fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getenvDefault("APP_ENV", "development"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:   getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		StaticDir:        getenvDefault("STATIC_DIR", "web"),
		UsersFile:        getenvDefault("USERS_FILE", "data/user_profiles.json"),
		EmbedCachePath:   getenvDefault("EMBED_CACHE_PATH", "data/kb-embeddings.db"),
		DatabaseURL:      trimmedEnv("DATABASE_URL"),
		OpenAIAPIKey:     trimmedEnv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getenvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:       getenvDefault("EMBED_MODEL", "text-embedding-3-small"),
		GenModel:         getenvDefault("GEN_MODEL", "gpt-4o-mini"),
		MetricsNamespace: getenvDefault("METRICS_NAMESPACE", "fitpro"),
		RedisAddr:        trimmedEnv("REDIS_ADDR"),
		RedisPassword:    trimmedEnv("REDIS_PASSWORD"),
	}

	cfg.GenerateAnswers = strings.EqualFold(getenvDefault("GENERATE_ANSWERS", "false"), "true")

	var err error
	embedTimeoutStr := getenvDefault("EMBED_TIMEOUT", "30s")
	if cfg.EmbedTimeout, err = time.ParseDuration(embedTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid EMBED_TIMEOUT duration: %w", err)
	}

	genTimeoutStr := getenvDefault("GEN_TIMEOUT", "30s")
	if cfg.GenTimeout, err = time.ParseDuration(genTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid GEN_TIMEOUT duration: %w", err)
	}

	rateWindowStr := getenvDefault("QUESTION_RATE_WINDOW", "10m")
	if cfg.QuestionRateWindow, err = time.ParseDuration(rateWindowStr); err != nil {
		return nil, fmt.Errorf("invalid QUESTION_RATE_WINDOW duration: %w", err)
	}

	if rateStr := getenvDefault("QUESTION_RATE_LIMIT", "20"); rateStr != "" {
		limit, convErr := strconv.ParseInt(rateStr, 10, 64)
		if convErr != nil {
			return nil, fmt.Errorf("invalid QUESTION_RATE_LIMIT value: %w", convErr)
		}
		if limit < 1 {
			limit = 1
		}
		cfg.QuestionRateLimit = limit
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}

	cfg.RedisTLS = strings.EqualFold(getenvDefault("REDIS_TLS", "false"), "true")

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	cfg.OpenAIBaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}

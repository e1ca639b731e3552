package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fitpro/internal/ai"
	"fitpro/internal/cache"
	"fitpro/internal/config"
	"fitpro/internal/convo"
	"fitpro/internal/httpapi"
	"fitpro/internal/kb"
	"fitpro/internal/metrics"
	"fitpro/internal/profile"
	"fitpro/internal/retrieval"
	"fitpro/internal/transcript"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	ctx := context.Background()

	m := metrics.New(cfg.MetricsNamespace)

	aiClient := ai.NewClient(ai.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		EmbedModel:   cfg.EmbedModel,
		GenModel:     cfg.GenModel,
		EmbedTimeout: cfg.EmbedTimeout,
		GenTimeout:   cfg.GenTimeout,
	}, m, logger)

	var generator ai.Generator
	if cfg.GenerateAnswers {
		generator = aiClient
	}

	embedCache, err := kb.OpenCache(cfg.EmbedCachePath, logger)
	if err != nil {
		logger.Warn("embedding cache unavailable, embedding on every start", "error", err)
		embedCache = nil
	} else {
		defer embedCache.Close()
	}

	index, err := kb.Load(ctx, aiClient, embedCache, cfg.EmbedModel, logger)
	if err != nil {
		logger.Error("failed loading knowledge base", "error", err)
		os.Exit(1)
	}

	var redisCache *cache.Redis
	if cfg.RedisAddr != "" {
		redisCache, err = cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTLS)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	var transcriptRepo *transcript.Repo
	if cfg.DatabaseURL != "" {
		transcriptRepo, err = transcript.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("postgres unavailable, transcript logging disabled", "error", err)
			transcriptRepo = nil
		} else {
			defer transcriptRepo.Close()
		}
	}

	store := profile.Open(cfg.UsersFile, logger)
	retriever := retrieval.New(index, aiClient, generator, m, logger)
	engine := convo.New(store, retriever, transcriptRepo, redisCache, m, logger, cfg.QuestionRateLimit, cfg.QuestionRateWindow)
	server := httpapi.NewServer(engine, m, logger, cfg.StaticDir)

	logger.Info("listening", "addr", cfg.HTTPListenAddr, "env", cfg.AppEnv)
	if err := http.ListenAndServe(cfg.HTTPListenAddr, server.Router()); err != nil {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

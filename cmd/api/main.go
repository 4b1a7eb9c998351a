package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"req-entities/internal/config"
	apihttp "req-entities/internal/http"
	"req-entities/internal/llm"
	"req-entities/internal/service"
	"req-entities/internal/stt"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	llmClient, err := llm.New(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		logger.Fatal("llm client init", zap.Error(err))
	}
	if pinger, ok := llmClient.(llm.Pinger); ok && cfg.LLMPingOnStart {
		ctxPing, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := pinger.Ping(ctxPing)
		cancel()
		if err != nil {
			logger.Fatal("llm endpoint unreachable",
				zap.String("provider", cfg.LLMProvider),
				zap.String("base_url", cfg.LLMBaseURL),
				zap.Error(err),
			)
		}
		logger.Info("llm connected", zap.String("provider", cfg.LLMProvider), zap.String("model", cfg.LLMModel))
	}

	transcriber := stt.NewDisabledTranscriber("speech-to-text not configured")
	if cfg.STTBaseURL != "" {
		transcriber = stt.NewWhisperClient(cfg.STTBaseURL, cfg.STTAPIKey, cfg.STTModel, logger)
	} else {
		logger.Warn("stt base url not configured, audio messages will be rejected")
	}

	limiter := service.NewMemoryRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax)
		}
		cancel()
	}

	extractor := service.NewEntityExtractor(llmClient, cfg.LLMTimeout, logger)
	audioSvc := service.NewAudioService(transcriber, cfg.STTLanguage, cfg.STTTimeout, logger)
	sessions := service.NewSessionManager(extractor, audioSvc, limiter, cfg.WSProtocol, logger)

	apiHandlers := apihttp.NewHandlers(logger, extractor, sessions, apihttp.ServiceInfo{
		LLMProvider: cfg.LLMProvider,
		LLMModel:    cfg.LLMModel,
	})
	wsHandler := apihttp.NewWSHandler(logger, sessions, cfg.WSMaxMessageBytes)
	router := apihttp.NewRouter(logger, apiHandlers, wsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("protocol", sessions.Protocol()),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

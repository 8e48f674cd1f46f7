package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kisansathi-backend/internal/config"
	"kisansathi-backend/internal/database"
	"kisansathi-backend/internal/handlers"
	"kisansathi-backend/internal/logging"
	"kisansathi-backend/internal/middleware"
	"kisansathi-backend/internal/router"
	"kisansathi-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	if err := logging.Init(cfg.Env); err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logging.Sync()
	logger := logging.L()
	logger.Info("🚀 Starting KisanSathi Backend...", zap.String("env", cfg.Env))

	// ──── Step 2: Initialize Gemini Client ────
	// A missing key is not fatal: the AI endpoints answer with a
	// configuration error instead.
	var generator services.Generator
	if cfg.HasGeminiKey() {
		geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, services.RetryPolicy{
			MaxRetries: cfg.GeminiMaxRetries,
			BaseDelay:  cfg.GeminiRetryBase,
			Timeout:    cfg.GeminiTimeout,
		})
		if err != nil {
			logger.Fatal("✗ Gemini client initialization failed", zap.Error(err))
		}
		defer geminiService.Close()
		generator = geminiService
		logger.Info("✓ Gemini client initialized", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("✗ No Gemini API key found", zap.Strings("checked", config.GeminiKeyVars))
	}

	// ──── Step 3: Initialize Redis (optional weather cache) ────
	var weatherCache services.WeatherCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("✗ Redis unavailable, weather cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			weatherCache = services.NewRedisWeatherCache(redisClient, cfg.WeatherCacheTTL)
			logger.Info("✓ Redis connected, weather cache enabled", zap.Duration("ttl", cfg.WeatherCacheTTL))
		}
	}

	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("✗ OPENWEATHER_API_KEY not set, /api/weather will report a configuration error")
	}

	// ──── Initialize Services ────
	assistant := services.NewAssistantService(generator)
	weatherService := services.NewWeatherService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, weatherCache)
	marketService := services.NewMarketService()
	schemeService := services.NewSchemeService()

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(assistant)
	diagnoseHandler := handlers.NewDiagnoseHandler(assistant, cfg.MaxImageBytes)
	weatherHandler := handlers.NewWeatherHandler(weatherService)
	marketHandler := handlers.NewMarketHandler(marketService)
	schemeHandler := handlers.NewSchemeHandler(schemeService)

	chatLimiter := middleware.NewRateLimiter(cfg.AIRequestsPerMin, time.Minute, handlers.ChatRateLimitedBody)
	diagnoseLimiter := middleware.NewRateLimiter(cfg.AIRequestsPerMin, time.Minute, handlers.DiagnoseRateLimitedBody)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(
		chatHandler,
		diagnoseHandler,
		weatherHandler,
		marketHandler,
		schemeHandler,
		chatLimiter,
		diagnoseLimiter,
		cfg.FrontendURL,
	)

	// WriteTimeout covers the slowest upstream path: every retry plus backoff.
	writeTimeout := cfg.GeminiTimeout*time.Duration(cfg.GeminiMaxRetries+1) + 15*time.Second

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		chatLimiter.Stop()
		diagnoseLimiter.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("✓ KisanSathi Backend ready",
		zap.String("addr", fmt.Sprintf("http://localhost:%s", cfg.Port)),
		zap.String("api", fmt.Sprintf("http://localhost:%s/api", cfg.Port)),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/moodsyncai/moodsync/internal/cache"
	"github.com/moodsyncai/moodsync/internal/config"
	"github.com/moodsyncai/moodsync/internal/database"
	"github.com/moodsyncai/moodsync/internal/logger"
	"github.com/moodsyncai/moodsync/internal/server"
	"github.com/moodsyncai/moodsync/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting MoodSync server...")

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connection established and migrations completed")

	insightsCache, err := cache.NewInsightsCache(cfg.Redis.Host, cfg.Redis.Port, time.Hour)
	if err != nil {
		logger.Warn("Redis unavailable, insights caching disabled", "error", err)
		insightsCache, _ = cache.NewInsightsCache("", "", time.Hour)
	}
	defer insightsCache.Close()

	ctx := context.Background()

	gemini, err := services.NewGeminiProvider(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.RequestTimeout)
	if err != nil {
		logger.Fatal("Failed to create Gemini provider", "error", err)
	}
	openRouter := services.NewOpenRouterProvider(cfg.AI.OpenRouterAPIKey, cfg.AI.OpenRouterBaseURL, cfg.AI.OpenRouterModel, cfg.AI.RequestTimeout)
	openAI := services.NewOpenAIProvider(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel, cfg.AI.RequestTimeout)

	analysisService := services.NewAnalysisService(gemini)
	userService := services.NewUserService(db)
	moodService := services.NewMoodService(db)
	journalService := services.NewJournalService(db, analysisService)
	chatService := services.NewChatService(db, gemini, openRouter, analysisService, services.ChatFallbacks{
		Reply:    cfg.Fallback.ChatReply,
		FollowUp: cfg.Fallback.FollowUp,
	})
	recommendationService := services.NewRecommendationService([]services.TextGenerator{openRouter, openAI})
	insightsService := services.NewInsightsService(moodService, journalService, gemini, insightsCache, cfg.Fallback.DefaultInsight)
	preferencesService := services.NewPreferencesService(db)
	logger.Info("Services initialized successfully")

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg, server.Deps{
		Users:       userService,
		Moods:       moodService,
		Journal:     journalService,
		Chat:        chatService,
		Recommender: recommendationService,
		Insights:    insightsService,
		Preferences: preferencesService,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

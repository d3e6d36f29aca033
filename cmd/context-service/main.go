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

	"golang-stock-insight/internal/engine/config"
	"golang-stock-insight/internal/engine/delivery/consumer"
	delivery "golang-stock-insight/internal/engine/delivery/http"
	"golang-stock-insight/internal/engine/repository"
	"golang-stock-insight/internal/engine/service"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/postgres"
	"golang-stock-insight/pkg/redis"
	"golang-stock-insight/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the signal and context engine service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Context Service", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
	}

	// Repositories
	stockSignalRepo := repository.NewStockSignalRepository(db.DB)
	historyRepo := repository.NewEnrichmentHistoryRepository(db.DB)
	watchlistRepo := repository.NewWatchlistRepository(db.DB)
	evidenceRepo := repository.NewNewsEvidenceRepository(cfg, appLogger)
	summarizerRepo, err := repository.NewGeminiSummarizerRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize summarizer", logger.ErrorField(err))
	}

	var telegramBot telegram.Notifier
	if cfg.Telegram.Enabled {
		telegramBot, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Services
	analyzerSvc := service.NewAnalyzerService(cfg, appLogger, redisClient.Client, stockSignalRepo, telegramBot)
	enrichmentSvc := service.NewEnrichmentService(cfg, appLogger, redisClient.Client, evidenceRepo, summarizerRepo, historyRepo)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, appLogger)
	schedulerSvc := service.NewWatchlistSchedulerService(cfg, appLogger, watchlistRepo, redisClient.Client)

	go schedulerSvc.Start(ctx)

	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, analyzerSvc, enrichmentSvc, appLogger)
	redisConsumer.Start(ctx)
	defer redisConsumer.Stop()

	// HTTP server
	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")

	analyzerHandler := delivery.NewAnalyzerHandler(analyzerSvc, stockSignalRepo, appLogger)
	analyzerHandler.RegisterRoutes(apiV1)

	contextHandler := delivery.NewContextHandler(enrichmentSvc, appLogger)
	contextHandler.RegisterRoutes(apiV1)

	watchlistHandler := delivery.NewWatchlistHandler(watchlistSvc, appLogger)
	watchlistGroup := apiV1.Group("/watchlist")
	watchlistHandler.RegisterRoutes(watchlistGroup)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "context-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-context.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing context-service CLI: %s\n", err)
		os.Exit(1)
	}
}

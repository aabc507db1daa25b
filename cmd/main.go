package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/sburman/coal-train-cup/cache"
	"github.com/sburman/coal-train-cup/config"
	"github.com/sburman/coal-train-cup/db"
	"github.com/sburman/coal-train-cup/handlers"
	"github.com/sburman/coal-train-cup/nrl"
	"github.com/sburman/coal-train-cup/repositories"
	api "github.com/sburman/coal-train-cup/routes"
	"github.com/sburman/coal-train-cup/services"
	"github.com/sburman/coal-train-cup/storage"
)

// How often fixtures are refreshed and caches re-warmed.
const schedulerInterval = 30 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tipRepo := repositories.NewPostgresTipRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	shieldRepo := repositories.NewPostgresShieldRepository(dbConn)
	logger.Info("repositories initialized")

	appCache := cache.New()
	nrlClient := nrl.New(cfg.NRLAuth)

	// Инициализация сервисов
	usersService := services.NewUsersService(userRepo, appCache)
	tipsService := services.NewTipsService(tipRepo, appCache)
	gamesService := services.NewGamesService(gameRepo, nrlClient, appCache, logger)
	leaderboardService := services.NewLeaderboardService(tipsService, usersService, gamesService, appCache)
	tippingService := services.NewTippingService(usersService, gamesService, tipsService, leaderboardService)
	shieldService := services.NewShieldService(shieldRepo, nrlClient, appCache)
	statsService := services.NewStatsService(usersService, tipsService, gamesService)

	var archiveService services.ArchiveService
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiveService = services.NewArchiveService(leaderboardService, gamesService, uploader, logger)
		logger.Info("leaderboard snapshot archive enabled")
	} else {
		logger.Info("leaderboard snapshot archive disabled (R2 not configured)")
	}
	logger.Info("services initialized")

	// Fixture refresh + cache warm scheduler. Runs once at startup, then on
	// the ticker.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("fixture refresh scheduler started", slog.Duration("interval", schedulerInterval))

		refresh := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			if err := gamesService.RefreshFixtures(ctx); err != nil {
				logger.Error("scheduler: fixture refresh failed", slog.Any("error", err))
			}
			if _, err := statsService.GetStats(ctx); err != nil {
				logger.Error("scheduler: cache warm failed", slog.Any("error", err))
			}
			if archiveService != nil {
				if err := archiveService.ArchiveClosedRounds(ctx); err != nil {
					logger.Error("scheduler: snapshot archive failed", slog.Any("error", err))
				}
			}
		}

		refresh()
		for range ticker.C {
			refresh()
		}
	}()

	// Инициализация обработчиков HTTP
	statsHandler := handlers.NewStatsHandler(statsService)
	tippingHandler := handlers.NewTippingHandler(tippingService)
	tipsHandler := handlers.NewTipsHandler(tipsService, statsService, leaderboardService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, gamesService)
	shieldHandler := handlers.NewShieldHandler(shieldService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		statsHandler,
		tippingHandler,
		tipsHandler,
		leaderboardHandler,
		shieldHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

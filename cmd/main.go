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

	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/db"
	"github.com/Dosada05/tournament-engine/events"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/routes"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/Dosada05/tournament-engine/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	if err := run(cfg, logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := services.Dependencies{Logger: logger}

	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.Migrate(ctx, dbConn); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		deps.Tx = repositories.NewPostgresTransactor(dbConn, logger)
		deps.Tournaments = repositories.NewPostgresTournamentRepository(dbConn)
		deps.Reconciliations = repositories.NewPostgresReconciliationRepository(dbConn)
		logger.Info("postgres repositories initialized")
	} else {
		store := repositories.NewMemoryStore()
		deps.Tx = store
		deps.Tournaments = store.Tournaments()
		deps.Reconciliations = store.Reconciliations()
		logger.Warn("DATABASE_URL not set, tournaments are kept in memory")
	}

	var upstream events.Upstream
	if cfg.NATSURL != "" {
		nu, err := events.NewNATSUpstream(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			return err
		}
		defer nu.Close()
		upstream = nu
		logger.Info("nats upstream connected", slog.String("subject", cfg.NATSSubject))
	}
	hub := events.NewHub(logger, upstream)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)
	eventLog, err := hub.Subscribe(hubCtx, events.AllRooms)
	if err != nil {
		return err
	}
	go events.LogEvents(eventLog, logger)
	deps.Events = hub

	if cfg.R2.Enabled() {
		store, err := storage.NewR2Store(ctx, cfg.R2)
		if err != nil {
			return fmt.Errorf("failed to initialize R2 store: %w", err)
		}
		deps.Archiver = storage.NewArchiver(store)
		logger.Info("bracket archive enabled", slog.String("bucket", cfg.R2.BucketName))
	}

	coordinator := services.NewCoordinator(deps)
	tournamentService := services.NewTournamentService(coordinator, services.EngineDefaults{Scoring: cfg.Scoring})
	scoreService := services.NewScoreService(coordinator)

	sweeper := services.NewMatchdaySweeper(coordinator, cfg.MatchdaySweepEvery)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sweeper.Shutdown(); err != nil {
			logger.Error("failed to stop matchday sweeper", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	routes.SetupRoutes(router,
		handlers.NewTournamentHandler(tournamentService, logger),
		handlers.NewScoreHandler(scoreService, logger),
		routes.Options{
			JWTSecret:      []byte(cfg.JWTSecretKey),
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger,
		},
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}

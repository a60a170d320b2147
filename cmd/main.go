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

	"github.com/poketeams/pokedex-api/catalog"
	"github.com/poketeams/pokedex-api/config"
	"github.com/poketeams/pokedex-api/db"
	"github.com/poketeams/pokedex-api/handlers"
	"github.com/poketeams/pokedex-api/pokeapi"
	"github.com/poketeams/pokedex-api/repositories"
	api "github.com/poketeams/pokedex-api/routes"
	"github.com/poketeams/pokedex-api/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Local fallback store is mandatory: the service must come up even
	// when the remote backend is unreachable.
	localConn, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open local store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := localConn.Close(); err != nil {
			logger.Error("failed to close local store", slog.Any("error", err))
		}
	}()
	logger.Info("local store opened", slog.String("path", cfg.SQLitePath))

	localBackend := &services.Backend{
		Rosters: repositories.NewSQLiteRosterRepository(localConn),
		Users:   repositories.NewSQLiteUserRepository(localConn),
	}

	// The remote backend is optional at startup; the gateway probes it
	// per request, so an unreachable database only means local mode.
	var remoteBackend *services.Backend
	if cfg.DatabaseURL != "" {
		remoteConn, err := db.ConnectPostgres(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Warn("remote database not reachable at startup", slog.Any("error", err))
		} else {
			if err := db.EnsurePostgresSchema(remoteConn); err != nil {
				logger.Warn("failed to ensure remote schema", slog.Any("error", err))
			}
			logger.Info("remote database connection established")
		}
		if remoteConn != nil {
			defer func() {
				if err := remoteConn.Close(); err != nil {
					logger.Error("failed to close remote database", slog.Any("error", err))
				}
			}()
			remoteBackend = &services.Backend{
				Rosters: repositories.NewPostgresRosterRepository(remoteConn),
				Users:   repositories.NewPostgresUserRepository(remoteConn),
				Pinger:  remoteConn,
			}
		}
	} else {
		logger.Info("no DATABASE_URL configured, running local-only")
	}

	gateway := services.NewGateway(remoteBackend, localBackend, services.DefaultProbeTimeout, logger)

	source := pokeapi.NewClient(cfg.PokeAPIBaseURL)
	engine := catalog.NewEngine(source)

	authService := services.NewAuthService(gateway, cfg.JWTSecretKey)
	rosterService := services.NewRosterService(gateway, source)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(engine, source)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	healthHandler := handlers.NewHealthHandler(gateway)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		catalogHandler,
		rosterHandler,
		healthHandler,
		gateway,
		[]byte(cfg.JWTSecretKey),
	)
	logger.Info("routes configured")

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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/JosephusPaye/memelord/internal/app"
	"github.com/JosephusPaye/memelord/internal/cache"
	"github.com/JosephusPaye/memelord/internal/config"
	"github.com/JosephusPaye/memelord/internal/database"
	"github.com/JosephusPaye/memelord/internal/domain"
	"github.com/JosephusPaye/memelord/internal/logging"
	"github.com/JosephusPaye/memelord/internal/server"
	"github.com/JosephusPaye/memelord/internal/slackapi"
	"github.com/JosephusPaye/memelord/internal/version"
)

func setupConfig() *config.Config {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)

	pool := setupDB(cfg)
	defer pool.Close()

	checks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	var teams domain.TeamRepository = database.NewTeamRepo(pool)

	// Redis is optional; without it team lookups go straight to Postgres.
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		redisClient = client
		defer func() { _ = redisClient.Close() }()

		teams = cache.NewTeamCache(teams, redisClient)
		checks = append(checks, server.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	awards := database.NewAwardRepo(pool)

	gateway := func(token string) app.SlackGateway {
		return slackapi.New(token)
	}

	appSvc := app.NewService(teams, awards, gateway, cfg.RestrictAwardTo, clockwork.NewRealClock())

	srv := server.NewServer(cfg, appSvc, teams, checks)

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

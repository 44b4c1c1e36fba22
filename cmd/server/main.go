package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harborline/broadside/internal/factory"
)

func main() {
	root := &cobra.Command{
		Use:   "broadside",
		Short: "Broadside battleship game server",
	}
	root.AddCommand(serveCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	var listenAddr string
	var storageType string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env for local development.
			_ = godotenv.Load()

			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: logLevel(),
			}))
			slog.SetDefault(logger)

			cfg, err := buildConfig(listenAddr, storageType, logger)
			if err != nil {
				return err
			}

			app, err := factory.New(cfg, logger)
			if err != nil {
				logger.Error("failed to create application", slog.String("error", err.Error()))
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				logger.Info("shutdown signal received")
				cancel()
			}()

			if err := app.Run(ctx); err != nil {
				logger.Error("server error", slog.String("error", err.Error()))
				return err
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (defaults to LISTEN_ADDR or :4242)")
	cmd.Flags().StringVar(&storageType, "storage", "", "storage backend: memory, redis, or sqlite (defaults to STORAGE_TYPE)")
	return cmd
}

func buildConfig(listenAddr, storageType string, logger *slog.Logger) (factory.Config, error) {
	cfg := factory.DefaultConfig()

	if storageType == "" {
		storageType = os.Getenv("STORAGE_TYPE")
	}
	if storageType != "" {
		cfg.Storage = storageType
	}

	if cfg.Storage == factory.StorageRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, errors.New("REDIS_URL required when storage is redis")
		}
		cfg.Redis.URL = redisURL
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		cfg.SQLitePath = path
	}

	if listenAddr == "" {
		listenAddr = os.Getenv("LISTEN_ADDR")
	}
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	if secs := os.Getenv("DEFAULT_TURN_LIMIT_SECS"); secs != "" {
		n, err := strconv.Atoi(secs)
		if err != nil || n <= 0 {
			logger.Warn("ignoring invalid DEFAULT_TURN_LIMIT_SECS", slog.String("value", secs))
		} else {
			cfg.Match.DefaultTurnLimit = time.Duration(n) * time.Second
		}
	}

	return cfg, nil
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

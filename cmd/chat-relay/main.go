package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"chat-relay/internal/api"
	"chat-relay/internal/logger"
	"chat-relay/internal/relay"
	"chat-relay/internal/tui"
)

type Config struct {
	Addr          string `env:"ADDR" envDefault:":8080"`
	UpstreamURL   string `env:"UPSTREAM_URL,required"`
	UpstreamToken string `env:"UPSTREAM_TOKEN,required"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, slog.LevelInfo)))

	if err := run(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	server := api.NewServer(relay.NewClient(cfg.UpstreamURL, cfg.UpstreamToken))
	metrics := api.NewMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", server.HandleChat)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: metrics.Middleware(mux),
	}
	errCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("chat-relay listening", "addr", cfg.Addr, "upstream", cfg.UpstreamURL)

	app := tui.New(cfg.Addr, metrics, httpServer, errCh)
	runErr := app.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", logger.Err(err))
	}

	return runErr
}

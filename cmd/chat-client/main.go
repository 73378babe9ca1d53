package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"chat-relay/internal/logger"
	"chat-relay/internal/relay"
	"chat-relay/internal/tui"
)

type Config struct {
	RelayURL string `env:"RELAY_URL" envDefault:"http://127.0.0.1:8080"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, slog.LevelWarn)))

	if err := run(); err != nil {
		slog.Error("chat client failed", logger.Err(err))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	return tui.NewChat(relay.NewChatAdapter(cfg.RelayURL)).Run()
}

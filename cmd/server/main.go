package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/RRGcodex/collaborative-whiteboard/internal/app"
	"github.com/RRGcodex/collaborative-whiteboard/internal/config"
	"github.com/RRGcodex/collaborative-whiteboard/internal/log"
)

func main() {
	// Load local .env (dev only).
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	bootstrap := log.New("info")
	cfg, path, err := config.Load(bootstrap, *configPath)
	if err != nil {
		stdlog.Fatalf("load config %s: %v", path, err)
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)

	logger.Info().Str("addr", cfg.Addr).Msg("starting whiteboard server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

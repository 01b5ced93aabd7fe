package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	webAdapter "medequip-admin/internal/adapters/web"
	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/config"
	"medequip-admin/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	lg := logger.WithComponent("main")

	if err := cfg.ValidateServer(); err != nil {
		lg.Fatal().Err(err).Msg("invalid server configuration")
	}

	// Every dashboard request carries its own token store from the session cookie.
	client := api.NewClient(cfg.APIURL, cfg.APITimeout)
	svc := app.NewAppService(client)

	handler, err := webAdapter.NewHandler(svc, cfg)
	if err != nil {
		lg.Fatal().Err(err).Msg("build handler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info().Str("api_url", cfg.APIURL).Msg("starting dashboard")
	if err := webAdapter.Serve(ctx, ":"+cfg.ServerPort, handler); err != nil {
		lg.Fatal().Err(err).Msg("server")
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"medequip-admin/internal/adapters/cli"
	webAdapter "medequip-admin/internal/adapters/web"
	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/config"
	"medequip-admin/internal/logger"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		os.Exit(1)
	}
	lc := cfg.GetLoggerConfig()
	if lc.Output == "" || lc.Output == "stdout" {
		// Keep stdout for command output.
		lc.Output = "stderr"
	}
	if err := logger.Setup(lc); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	client := api.NewClient(cfg.APIURL, cfg.APITimeout).
		WithDefaultTokenStore(api.NewFileTokenStore(cfg.TokenFile))
	svc := app.NewAppService(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.Options{
		Service:  svc,
		Currency: cfg.Currency,
		Version:  version,
		Serve: func(ctx context.Context) error {
			if err := cfg.ValidateServer(); err != nil {
				return err
			}
			// The dashboard never falls back to the CLI's saved token.
			webSvc := app.NewAppService(api.NewClient(cfg.APIURL, cfg.APITimeout))
			handler, err := webAdapter.NewHandler(webSvc, cfg)
			if err != nil {
				return err
			}
			return webAdapter.Serve(ctx, ":"+cfg.ServerPort, handler)
		},
	})
	code := cli.Execute(ctx, root)
	stop()
	os.Exit(code)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"offerhub/internal/app/bootstrap"
	"offerhub/internal/platform/config"

	"github.com/urfave/cli/v2"
)

// API process entrypoint.
// Data flow:
// 1) Load config from env, then apply flag overrides.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP until interrupted.
//
// @title Offerhub Offer API
// @version 1.0
// @description Offer lifecycle for marketplace listings: create, assess, edit and delete offers.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "offerhub-api",
		Usage: "serve the offer HTTP API",
		Flags: overrideFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			api, err := bootstrap.BuildAPI(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := api.Close(); err != nil {
					log.Printf("api shutdown close failed: %v", err)
				}
			}()
			return api.Run(ctx)
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatalf("offerhub api stopped with error: %v", err)
	}
}

func overrideFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port (overrides HTTP_PORT)"},
		&cli.StringFlag{Name: "storage", Usage: "storage driver: memory, postgres or mongo (overrides STORAGE_DRIVER)"},
		&cli.StringFlag{Name: "postgres-dsn", Usage: "postgres DSN (overrides POSTGRES_DSN)"},
		&cli.StringFlag{Name: "mongo-uri", Usage: "mongo URI (overrides MONGO_URI)"},
		&cli.StringFlag{Name: "seed-file", Usage: "JSON users/listings seed for memory storage (overrides SEED_FILE)"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOG_LEVEL)"},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if c.IsSet("port") {
		cfg.HTTPPort = c.String("port")
	}
	if c.IsSet("storage") {
		cfg.StorageDriver = c.String("storage")
	}
	if c.IsSet("postgres-dsn") {
		cfg.PostgresDSN = c.String("postgres-dsn")
	}
	if c.IsSet("mongo-uri") {
		cfg.MongoURI = c.String("mongo-uri")
	}
	if c.IsSet("seed-file") {
		cfg.SeedFile = c.String("seed-file")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, nil
}

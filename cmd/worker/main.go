package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"offerhub/internal/app/bootstrap"
	"offerhub/internal/platform/config"

	"github.com/urfave/cli/v2"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay offer outbox events to the bus and run the activity consumer.
func main() {
	app := &cli.App{
		Name:  "offerhub-worker",
		Usage: "relay offer outbox events",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "storage", Usage: "storage driver: postgres or mongo (overrides STORAGE_DRIVER)"},
			&cli.DurationFlag{Name: "poll-interval", Usage: "outbox poll interval (overrides OUTBOX_POLL_INTERVAL)"},
			&cli.IntFlag{Name: "batch-size", Usage: "outbox batch size (overrides OUTBOX_BATCH_SIZE)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.IsSet("storage") {
				cfg.StorageDriver = c.String("storage")
			}
			if c.IsSet("poll-interval") {
				cfg.OutboxPollInterval = c.Duration("poll-interval")
			}
			if c.IsSet("batch-size") {
				cfg.OutboxBatchSize = c.Int("batch-size")
			}
			if cfg.OutboxPollInterval <= 0 {
				cfg.OutboxPollInterval = 2 * time.Second
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			worker, err := bootstrap.BuildWorker(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := worker.Close(); err != nil {
					log.Printf("worker shutdown close failed: %v", err)
				}
			}()
			return worker.Run(ctx)
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatalf("offerhub worker stopped with error: %v", err)
	}
}

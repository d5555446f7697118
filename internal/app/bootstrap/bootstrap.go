package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	offerservice "offerhub/contexts/marketplace/offer-service"
	"offerhub/contexts/marketplace/offer-service/adapters/memory"
	mongoadapter "offerhub/contexts/marketplace/offer-service/adapters/mongo"
	postgresadapter "offerhub/contexts/marketplace/offer-service/adapters/postgres"
	workerapp "offerhub/contexts/marketplace/offer-service/application/workers"
	"offerhub/contexts/marketplace/offer-service/ports"
	"offerhub/internal/platform/auth"
	"offerhub/internal/platform/config"
	"offerhub/internal/platform/db"
	"offerhub/internal/platform/httpserver"
	"offerhub/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server  *httpserver.Server
	storage storage
	// relay drains the in-process outbox when offers live in memory.
	relay  *WorkerApp
	logger *slog.Logger
}

type WorkerApp struct {
	storage      storage
	outboxRelay  workerapp.OutboxRelay
	activity     workerapp.OfferActivityConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// storage is the set of ports one driver provides.
type storage struct {
	offers   ports.OfferRepository
	users    ports.UserRepository
	listings ports.ListingRepository
	outbox   ports.OutboxRepository
	clock    ports.Clock
	ids      ports.IDGenerator
	close    func() error
}

func NewLogger(cfg config.Config, process string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

func BuildAPI(ctx context.Context, cfg config.Config) (*APIApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "api")

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	module := offerservice.NewModule(offerservice.Dependencies{
		Offers:      store.offers,
		Users:       store.users,
		Listings:    store.listings,
		Clock:       store.clock,
		IDGenerator: store.ids,
		Logger:      logger,
	})

	app := &APIApp{
		server:  httpserver.New(module, tokens, logger, normalizeAddr(cfg.HTTPPort)),
		storage: store,
		logger:  logger,
	}
	if cfg.StorageDriver == config.StorageMemory {
		relay, err := newWorker(cfg, store, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		app.relay = relay
	}
	return app, nil
}

func BuildWorker(ctx context.Context, cfg config.Config) (*WorkerApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.StorageDriver == config.StorageMemory {
		return nil, errors.New("worker requires a shared storage driver (postgres or mongo)")
	}
	logger := NewLogger(cfg, "worker")

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	worker, err := newWorker(cfg, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return worker, nil
}

func newWorker(cfg config.Config, store storage, logger *slog.Logger) (*WorkerApp, error) {
	bus, err := messaging.NewEventBus(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	pollInterval := cfg.OutboxPollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &WorkerApp{
		storage: store,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    store.outbox,
			Publisher: bus,
			Clock:     store.clock,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		activity: workerapp.OfferActivityConsumer{
			Subscriber: bus,
			Logger:     logger,
		},
		pollInterval: pollInterval,
		logger:       logger,
	}, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pg, err := db.Connect(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return storage{}, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.AutoMigrate(ctx); err != nil {
			_ = pg.Close()
			return storage{}, err
		}
		return storage{
			offers:   repo,
			users:    repo,
			listings: repo,
			outbox:   repo,
			clock:    postgresadapter.SystemClock{},
			ids:      postgresadapter.UUIDGenerator{},
			close:    pg.Close,
		}, nil
	case config.StorageMongo:
		mg, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return storage{}, err
		}
		repo := mongoadapter.NewRepository(mg.Client, cfg.MongoDatabase, logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = mg.Close()
			return storage{}, err
		}
		return storage{
			offers:   repo,
			users:    repo,
			listings: repo,
			outbox:   repo,
			clock:    postgresadapter.SystemClock{},
			ids:      postgresadapter.UUIDGenerator{},
			close:    mg.Close,
		}, nil
	default:
		seed, err := LoadSeed(cfg.SeedFile)
		if err != nil {
			return storage{}, err
		}
		store := memory.NewStore(seed.Users(), seed.Listings(), logger)
		logger.Info("memory storage seeded",
			"event", "bootstrap_memory_seeded",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"users", len(seed.UserRows),
			"listings", len(seed.ListingRows),
		)
		return storage{
			offers:   store,
			users:    store,
			listings: store,
			outbox:   store,
			clock:    store,
			ids:      postgresadapter.UUIDGenerator{},
		}, nil
	}
}

func (s storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	if a.relay != nil {
		go func() {
			if err := a.relay.Run(ctx); err != nil {
				a.logger.Error("in-process outbox relay stopped",
					"event", "bootstrap_api_relay_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}()
	}
	return a.server.Start(ctx)
}

func (a *APIApp) Close() error {
	return a.storage.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.activity.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("outbox relay cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.storage.Close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

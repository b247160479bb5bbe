// Package backend assembles the storage and event-publishing dependencies
// from configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"outlay/internal/config"
	"outlay/internal/events"
	"outlay/internal/storage"
)

// Result bundles the constructed dependencies. Cleanup releases them and is
// safe to call once at shutdown.
type Result struct {
	Store     storage.Store
	Publisher events.Publisher
	Cleanup   func()
}

// New builds the store selected by DATA_BACKEND and, when a broker URL is
// configured, an AMQP publisher. A broker that cannot be reached downgrades
// to the no-op publisher rather than failing startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		} else {
			logger.Info("Initialized AMQP publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			publisher = amqpPublisher
		}
	}

	return &Result{
		Store:     store,
		Publisher: publisher,
		Cleanup: func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Close publisher failed", "error", err)
			}
			if err := store.Close(); err != nil {
				logger.Warn("Close store failed", "error", err)
			}
		},
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		logger.Info("Initialized postgres backend")
		return store, nil

	case config.BackendSQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil

	case config.BackendMemory:
		logger.Info("Initialized memory backend")
		return storage.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}

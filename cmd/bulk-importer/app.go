package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/ShipBox/config"
	"github.com/BearBump/ShipBox/internal/broker/kafka"
	"github.com/BearBump/ShipBox/internal/cache"
	"github.com/BearBump/ShipBox/internal/cache/rediscache"
	"github.com/BearBump/ShipBox/internal/services/importer"
	"github.com/BearBump/ShipBox/internal/services/shipments"
	"github.com/BearBump/ShipBox/internal/storage/pgshipment"
	"golang.org/x/sync/errgroup"
)

// eventProducer publishes both raw batch results and JSON change events.
type eventProducer interface {
	importer.Producer
	shipments.EventPublisher
}

type batchConsumer interface {
	Consume(ctx context.Context, handler kafka.Handler) error
	Close() error
}

type importerFactories struct {
	newStorage     func(cfg *config.Config) (repo shipments.Repository, closeFn func(), err error)
	newCache       func(cfg *config.Config) cache.BytesCache
	newProducer    func(cfg *config.Config) eventProducer
	newRateLimiter func(cfg *config.Config) importer.RateLimiter
	newConsumer    func(cfg *config.Config) batchConsumer
}

func defaultImporterFactories() importerFactories {
	return importerFactories{
		newStorage: func(cfg *config.Config) (shipments.Repository, func(), error) {
			st, err := pgshipment.New(cfg.Database.ConnString())
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newCache: func(cfg *config.Config) cache.BytesCache {
			return rediscache.New(cfg.Redis.Addr(), rediscache.Namespace(cfg.ShipBox.TenantID))
		},
		newProducer: func(cfg *config.Config) eventProducer {
			return kafka.NewProducer(cfg.Kafka.Brokers())
		},
		newRateLimiter: func(cfg *config.Config) importer.RateLimiter {
			return rediscache.NewRateLimiter(cfg.Redis.Addr())
		},
		newConsumer: func(cfg *config.Config) batchConsumer {
			return kafka.NewConsumer(cfg.Kafka.Brokers(), cfg.Kafka.BulkImportTopicName, cfg.ShipBox.ImporterConsumerGroup)
		},
	}
}

type importerRunOpts struct {
	swaggerPath  string
	onListen     func(httpAddr string)
	retryBackoff time.Duration
}

// RunBulkImporter consumes bulk import batches until ctx is cancelled.
func RunBulkImporter(ctx context.Context, cfg *config.Config, f importerFactories, opts importerRunOpts) error {
	cfg.ApplyDefaults()
	if opts.retryBackoff <= 0 {
		opts.retryBackoff = 2 * time.Second
	}

	repo, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	producer := f.newProducer(cfg)
	svc := shipments.New(repo, f.newCache(cfg), producer, shipments.Options{
		TenantID:        cfg.ShipBox.TenantID,
		EventsTopic:     cfg.Kafka.ShipmentEventsTopicName,
		GroupIDsTTL:     time.Duration(cfg.ShipBox.GroupIDsTTLSeconds) * time.Second,
		BulkConcurrency: cfg.ShipBox.BulkConcurrency,
		BulkMaxRecords:  cfg.ShipBox.BulkMaxRecords,
	})

	imp := importer.New(svc, producer, f.newRateLimiter(cfg), cfg.Kafka.BulkImportResultsTopicName).
		WithSettings(cfg.ShipBox.TenantID, int64(cfg.ShipBox.ImporterRateLimitPerMinute))

	consumer := f.newConsumer(cfg)
	defer func() { _ = consumer.Close() }()

	slog.Info("bulk importer started",
		"topic", cfg.Kafka.BulkImportTopicName,
		"group", cfg.ShipBox.ImporterConsumerGroup,
		"results_topic", cfg.Kafka.BulkImportResultsTopicName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runImporterHTTPServer(gctx, importerHTTPOpts{
			httpAddr:    cfg.ShipBox.ImporterHTTPAddr,
			swaggerPath: opts.swaggerPath,
			onListen:    opts.onListen,
			importer:    imp,
			cfg:         cfg,
		})
	})
	g.Go(func() error {
		return consumeWithRetry(gctx, consumer, imp.Handle, opts.retryBackoff)
	})
	return g.Wait()
}

// consumeWithRetry restarts the consumer after failures; uncommitted batches are redelivered.
func consumeWithRetry(ctx context.Context, c batchConsumer, h kafka.Handler, backoff time.Duration) error {
	for {
		err := c.Consume(ctx, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.Error("bulk import consume failed, retrying", "error", err.Error(), "backoff", backoff)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

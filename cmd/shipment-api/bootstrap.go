package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/ShipBox/config"
	"github.com/BearBump/ShipBox/internal/broker/kafka"
	"github.com/BearBump/ShipBox/internal/cache/rediscache"
	"github.com/BearBump/ShipBox/internal/services/shipments"
	"github.com/BearBump/ShipBox/internal/storage/pgshipment"
)

type shipmentAPIApp struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     shipmentAPIOpts
	svc      *shipments.Service
	producer *kafka.Producer
	cache    *rediscache.RedisCache
	closeDB  func()
}

func mustBootstrapShipmentAPI() *shipmentAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		panic("swaggerPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("config parse error, %v", err))
	}

	cfg.ApplyDefaults()

	st := mustOpenPostgresWithRetry(cfg.Database.ConnString(), 60*time.Second)
	rc := rediscache.New(cfg.Redis.Addr(), rediscache.Namespace(cfg.ShipBox.TenantID))
	producer := kafka.NewProducer(cfg.Kafka.Brokers())

	svc := shipments.New(st, rc, producer, serviceOptions(cfg))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &shipmentAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: shipmentAPIOpts{
			grpcAddr:    cfg.ShipBox.GRPCAddr,
			httpAddr:    cfg.ShipBox.HTTPAddr,
			swaggerPath: swaggerPath,
		},
		svc:      svc,
		producer: producer,
		cache:    rc,
		closeDB:  st.Close,
	}
}

// serviceOptions maps config onto the shipment service; call cfg.ApplyDefaults first.
func serviceOptions(cfg *config.Config) shipments.Options {
	return shipments.Options{
		TenantID:        cfg.ShipBox.TenantID,
		EventsTopic:     cfg.Kafka.ShipmentEventsTopicName,
		GroupIDsTTL:     time.Duration(cfg.ShipBox.GroupIDsTTLSeconds) * time.Second,
		BulkConcurrency: cfg.ShipBox.BulkConcurrency,
		BulkMaxRecords:  cfg.ShipBox.BulkMaxRecords,
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgshipment.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgshipment.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *shipmentAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.producer != nil {
		_ = a.producer.Close()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *shipmentAPIApp) Run() error {
	return runShipmentAPI(a.ctx, a.opts, a.svc)
}

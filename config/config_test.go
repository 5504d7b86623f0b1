package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
database:
  host: "localhost"
  port: 5432
  username: "u"
  password: "p"
  name: "db"
kafka:
  host: "localhost"
  port: 9092
  shipment_events_topic_name: "shipments.events"
  bulk_import_topic_name: "shipments.bulk_import"
redis:
  host: "localhost"
  port: 6379
shipbox:
  grpc_addr: ":50051"
  http_addr: ":8080"
  tenant_id: "acme"
  group_ids_ttl_seconds: 30
  bulk_concurrency: 4
`), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "u", cfg.Database.Username)
	require.Equal(t, "shipments.events", cfg.Kafka.ShipmentEventsTopicName)
	require.Equal(t, "shipments.bulk_import", cfg.Kafka.BulkImportTopicName)
	require.Equal(t, 6379, cfg.Redis.Port)
	require.Equal(t, ":8080", cfg.ShipBox.HTTPAddr)
	require.Equal(t, "acme", cfg.ShipBox.TenantID)
	require.Equal(t, 4, cfg.ShipBox.BulkConcurrency)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDerivedAddresses(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Host: "db", Port: 5432, Username: "u", Password: "p", DBName: "ship"},
		Kafka:    KafkaConfig{Host: "kafka", Port: 9092},
		Redis:    RedisConfig{Host: "redis", Port: 6379},
	}
	require.Equal(t, "postgres://u:p@db:5432/ship?sslmode=disable", cfg.Database.ConnString())
	require.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers())
	require.Equal(t, "redis:6379", cfg.Redis.Addr())

	cfg.Database.SSLMode = "require"
	require.Contains(t, cfg.Database.ConnString(), "sslmode=require")
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{ShipBox: ShipBoxConfig{TenantID: "acme", BulkConcurrency: -1}}
	cfg.ApplyDefaults()

	require.Equal(t, "acme", cfg.ShipBox.TenantID)
	require.Equal(t, 8, cfg.ShipBox.BulkConcurrency)
	require.Equal(t, ":8080", cfg.ShipBox.HTTPAddr)
	require.Equal(t, ":8082", cfg.ShipBox.ImporterHTTPAddr)
	require.Equal(t, "bulk-importer", cfg.ShipBox.ImporterConsumerGroup)
	require.Equal(t, "shipments.bulk_import.results", cfg.Kafka.BulkImportResultsTopicName)
	require.Equal(t, 60, cfg.ShipBox.GroupIDsTTLSeconds)
}

func TestLoadConfig_Example(t *testing.T) {
	cfg, err := LoadConfig("config.example.yaml")
	require.NoError(t, err)
	require.Equal(t, "shipments.bulk_import.results", cfg.Kafka.BulkImportResultsTopicName)
	require.Equal(t, 1000, cfg.ShipBox.BulkMaxRecords)
	require.Equal(t, "bulk-importer", cfg.ShipBox.ImporterConsumerGroup)
}

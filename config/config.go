package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	ShipBox  ShipBoxConfig  `yaml:"shipbox"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// ConnString builds a pgx connection string, sslmode defaults to "disable".
func (d DatabaseConfig) ConnString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.DBName, sslMode)
}

type KafkaConfig struct {
	Host                       string `yaml:"host"`
	Port                       int    `yaml:"port"`
	ShipmentEventsTopicName    string `yaml:"shipment_events_topic_name"`
	BulkImportTopicName        string `yaml:"bulk_import_topic_name"`
	BulkImportResultsTopicName string `yaml:"bulk_import_results_topic_name"`
}

func (k KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", k.Host, k.Port)}
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type ShipBoxConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
	TenantID string `yaml:"tenant_id"`

	GroupIDsTTLSeconds int `yaml:"group_ids_ttl_seconds"`

	BulkConcurrency int `yaml:"bulk_concurrency"`
	BulkMaxRecords  int `yaml:"bulk_max_records"`

	ImporterHTTPAddr           string `yaml:"importer_http_addr"`
	ImporterConsumerGroup      string `yaml:"importer_consumer_group"`
	ImporterRateLimitPerMinute int    `yaml:"importer_rate_limit_per_minute"`
}

// ApplyDefaults fills every unset operational setting.
func (c *Config) ApplyDefaults() {
	setString(&c.Kafka.ShipmentEventsTopicName, "shipments.events")
	setString(&c.Kafka.BulkImportTopicName, "shipments.bulk_import")
	setString(&c.Kafka.BulkImportResultsTopicName, "shipments.bulk_import.results")

	setString(&c.ShipBox.HTTPAddr, ":8080")
	setString(&c.ShipBox.GRPCAddr, ":50051")
	setString(&c.ShipBox.TenantID, "default")
	setInt(&c.ShipBox.GroupIDsTTLSeconds, 60)
	setInt(&c.ShipBox.BulkConcurrency, 8)
	setInt(&c.ShipBox.BulkMaxRecords, 1000)

	setString(&c.ShipBox.ImporterHTTPAddr, ":8082")
	setString(&c.ShipBox.ImporterConsumerGroup, "bulk-importer")
	setInt(&c.ShipBox.ImporterRateLimitPerMinute, 60)
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

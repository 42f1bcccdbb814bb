package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// OutputFile, when set, replaces the Kafka sink with a gzip JSONL file.
	OutputFile string

	// Damage classification parameters.
	DSBDistance     int
	SSBThresholdEV  float64
	BDThresholdEV   float64
	ClusterDistance int
	NumberOfSplit   int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	batchSize, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	dsbDistance, err := parsePositiveInt("DSB_BP_DISTANCE", 10)
	if err != nil {
		return nil, err
	}

	clusterDistance, err := parsePositiveInt("CLUSTER_BP_DISTANCE", 40)
	if err != nil {
		return nil, err
	}

	numSplit, err := parsePositiveInt("NUMBER_OF_SPLIT", 1)
	if err != nil {
		return nil, err
	}

	ssbThreshold, err := parsePositiveFloat("SSB_ENERGY_THRESHOLD_EV", 17.5)
	if err != nil {
		return nil, err
	}

	bdThreshold, err := parsePositiveFloat("BD_ENERGY_THRESHOLD_EV", 17.5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "raw-energy-deposits"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "classified-dna-damage"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "dna-damage-etl"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		OutputFile:         os.Getenv("OUTPUT_FILE"),

		DSBDistance:     dsbDistance,
		SSBThresholdEV:  ssbThreshold,
		BDThresholdEV:   bdThreshold,
		ClusterDistance: clusterDistance,
		NumberOfSplit:   numSplit,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" && cfg.OutputFile == "" {
		return nil, errors.New("either KAFKA_SINK_TOPIC or OUTPUT_FILE is required")
	}

	return cfg, nil
}

// Params bundles the classification parameters for the domain layer.
func (c *Config) Params() domain.Params {
	return domain.Params{
		DSBDistance:     c.DSBDistance,
		SSBThresholdEV:  c.SSBThresholdEV,
		BDThresholdEV:   c.BDThresholdEV,
		ClusterDistance: c.ClusterDistance,
		NumberOfSplit:   c.NumberOfSplit,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parsePositiveFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHTTPPort            = 3134
	DefaultInactivityThreshold = 10 * time.Minute
	DefaultSweepInterval       = 60 * time.Second
	DefaultLogLevel            = "info"
	DefaultKafkaTopic          = "cart-events"
)

type Config struct {
	// HTTPPort is the port the gin server listens on.
	HTTPPort int `yaml:"http_port"`

	// InactivityThreshold is how long a cart may stay untouched before the
	// sweeper removes it. Whole minutes only.
	InactivityThreshold time.Duration `yaml:"inactivity_threshold"`

	// SweepInterval is the cadence of the eviction pass.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	LogLevel string `yaml:"log_level"`

	// RedisAddr enables Redis backed idempotency for cart creation.
	RedisAddr string `yaml:"redis_addr"`

	Kafka KafkaConfig `yaml:"kafka"`

	// DatabaseURL points at a Postgres database holding the catalog_items
	// table. When empty the built-in catalog is used.
	DatabaseURL string `yaml:"database_url"`

	LokiURL string `yaml:"loki_url"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is not empty) and finally the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cart config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cart config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, fmt.Errorf("cart config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("cart config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTPPort:            DefaultHTTPPort,
		InactivityThreshold: DefaultInactivityThreshold,
		SweepInterval:       DefaultSweepInterval,
		LogLevel:            DefaultLogLevel,
		Kafka: KafkaConfig{
			Topic: DefaultKafkaTopic,
		},
	}
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if s := getenv("HTTP_PORT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("HTTP_PORT %q: %w", s, err)
		}
		cfg.HTTPPort = n
	}
	if s := getenv("CART_INACTIVITY_THRESHOLD"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("CART_INACTIVITY_THRESHOLD %q: %w", s, err)
		}
		cfg.InactivityThreshold = d
	}
	if s := getenv("CART_SWEEP_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("CART_SWEEP_INTERVAL %q: %w", s, err)
		}
		cfg.SweepInterval = d
	}
	if s := getenv("LOG_LEVEL"); s != "" {
		cfg.LogLevel = s
	}
	if s := getenv("REDIS_ADDR"); s != "" {
		cfg.RedisAddr = s
	}
	if s := getenv("KAFKA_BROKERS"); s != "" {
		cfg.Kafka.Brokers = splitList(s)
	}
	if s := getenv("KAFKA_TOPIC"); s != "" {
		cfg.Kafka.Topic = s
	}
	if s := getenv("DATABASE_URL"); s != "" {
		cfg.DatabaseURL = s
	}
	if s := getenv("LOKI_URL"); s != "" {
		cfg.LokiURL = s
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d is out of range [1, 65535]", cfg.HTTPPort)
	}
	if cfg.InactivityThreshold <= 0 {
		return fmt.Errorf("inactivity_threshold must be positive, got %v", cfg.InactivityThreshold)
	}
	// idle time is measured in whole minutes
	if cfg.InactivityThreshold%time.Minute != 0 {
		return fmt.Errorf("inactivity_threshold must be a whole number of minutes, got %v", cfg.InactivityThreshold)
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %v", cfg.SweepInterval)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q unknown: want debug|info|warn|error", cfg.LogLevel)
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}

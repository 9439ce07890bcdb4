package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"HTTP_PORT", "CART_INACTIVITY_THRESHOLD", "CART_SWEEP_INTERVAL", "LOG_LEVEL",
	"REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_TOPIC", "DATABASE_URL", "LOKI_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cart.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.HTTPPort, DefaultHTTPPort)
	}
	if cfg.InactivityThreshold != 10*time.Minute {
		t.Errorf("inactivity_threshold: got %v, want 10m", cfg.InactivityThreshold)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("sweep_interval: got %v, want 1m", cfg.SweepInterval)
	}
	if cfg.Kafka.Topic != DefaultKafkaTopic || len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("kafka: got %+v", cfg.Kafka)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, `http_port: 9000
inactivity_threshold: 30m
sweep_interval: 15s
log_level: debug
redis_addr: redis:6379
kafka:
  brokers: [kafka-1:9092, kafka-2:9092]
  topic: carts
database_url: postgres://cart@db/cart?sslmode=disable
`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 9000 {
		t.Errorf("http_port: got %d, want 9000", cfg.HTTPPort)
	}
	if cfg.InactivityThreshold != 30*time.Minute || cfg.SweepInterval != 15*time.Second {
		t.Errorf("durations: got %v / %v", cfg.InactivityThreshold, cfg.SweepInterval)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Topic != "carts" {
		t.Errorf("kafka: got %+v", cfg.Kafka)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("redis_addr: got %q", cfg.RedisAddr)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, "http_port: 9000\n")
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CART_INACTIVITY_THRESHOLD", "2m")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 9100 {
		t.Errorf("http_port: got %d, want 9100", cfg.HTTPPort)
	}
	if cfg.InactivityThreshold != 2*time.Minute {
		t.Errorf("inactivity_threshold: got %v, want 2m", cfg.InactivityThreshold)
	}
	if strings.Join(cfg.Kafka.Brokers, ",") != "a:9092,b:9092" {
		t.Errorf("kafka.brokers: got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"port out of range", "http_port: 70000\n", nil, "http_port"},
		{"zero threshold", "inactivity_threshold: 0s\n", nil, "inactivity_threshold"},
		{"sub-minute threshold", "inactivity_threshold: 90s\n", nil, "whole number of minutes"},
		{"sub-minute env threshold", "", map[string]string{"CART_INACTIVITY_THRESHOLD": "30s"}, "whole number of minutes"},
		{"negative interval", "sweep_interval: -1s\n", nil, "sweep_interval"},
		{"unknown log level", "log_level: loud\n", nil, "log_level"},
		{"bad env duration", "", map[string]string{"CART_SWEEP_INTERVAL": "soon"}, "CART_SWEEP_INTERVAL"},
		{"bad env port", "", map[string]string{"HTTP_PORT": "http"}, "HTTP_PORT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

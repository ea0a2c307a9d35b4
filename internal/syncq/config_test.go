package syncq

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shards != 2 || cfg.QueueSize != 64 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.MaxAttempts != 4 || cfg.BaseBackoff != 200*time.Millisecond {
		t.Fatalf("retry defaults = %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SYNCQ_SHARDS", "8")
	t.Setenv("SYNCQ_QUEUE_SIZE", "256")
	t.Setenv("SYNCQ_ENQUEUE_TIMEOUT", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shards != 8 || cfg.QueueSize != 256 || cfg.EnqueueTimeout != 250*time.Millisecond {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	if cfg.Shards == 0 || cfg.QueueSize == 0 || cfg.EnqueueTimeout == 0 ||
		cfg.MaxAttempts == 0 || cfg.BaseBackoff == 0 || cfg.MaxInterval == 0 {
		t.Fatalf("applyDefaults left zero values: %+v", cfg)
	}
}

package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestGetEnvDefaults(t *testing.T) {
	if got := GetEnv("RIPPLE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv = %q, want fallback", got)
	}
	t.Setenv("RIPPLE_TEST_SET", "value")
	if got := GetEnv("RIPPLE_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("GetEnv = %q, want value", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("RIPPLE_TEST_INT", "42")
	if got := GetEnvInt("RIPPLE_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt = %d, want 42", got)
	}
	t.Setenv("RIPPLE_TEST_INT", "not-a-number")
	if got := GetEnvInt("RIPPLE_TEST_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt with garbage = %d, want default 7", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("RIPPLE_TEST_TTL", "90s")
	if got := GetEnvDuration("RIPPLE_TEST_TTL", time.Minute); got != 90*time.Second {
		t.Fatalf("GetEnvDuration = %v, want 90s", got)
	}
	t.Setenv("RIPPLE_TEST_TTL", "soon")
	if got := GetEnvDuration("RIPPLE_TEST_TTL", time.Minute); got != time.Minute {
		t.Fatalf("GetEnvDuration with garbage = %v, want 1m", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.FeedCacheTTL != 5*time.Minute {
		t.Fatalf("FeedCacheTTL = %v, want 5m", cfg.FeedCacheTTL)
	}
	if cfg.CategoryCacheTTL != 15*time.Minute {
		t.Fatalf("CategoryCacheTTL = %v, want 15m", cfg.CategoryCacheTTL)
	}
	if cfg.RawFetchLimit != 1000 {
		t.Fatalf("RawFetchLimit = %d, want 1000", cfg.RawFetchLimit)
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	if got := GetLogLevel(); got != logrus.DebugLevel {
		t.Fatalf("GetLogLevel = %v, want debug", got)
	}
	t.Setenv("LOG_LEVEL", "")
	if got := GetLogLevel(); got != logrus.InfoLevel {
		t.Fatalf("GetLogLevel default = %v, want info", got)
	}
}

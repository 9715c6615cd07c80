package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Executable != "CosmicShake-Win64-Shipping.exe" {
		t.Fatalf("expected default executable, got %q", cfg.Executable)
	}
	if !cfg.ResetOnNewGame {
		t.Fatalf("expected reset on new game by default")
	}
	if cfg.PollInterval != 8*time.Millisecond {
		t.Fatalf("expected 8ms poll interval, got %v", cfg.PollInterval)
	}
	if cfg.LiveSplitAddr != "localhost:16834" {
		t.Fatalf("expected default LiveSplit address, got %q", cfg.LiveSplitAddr)
	}
	if cfg.LiveSplitDialTimeout != time.Second {
		t.Fatalf("expected 1s dial timeout, got %v", cfg.LiveSplitDialTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COSMICSPLIT_RESET_ON_NEW_GAME", "false")
	t.Setenv("COSMICSPLIT_POLL_INTERVAL", "16ms")
	t.Setenv("COSMICSPLIT_LIVESPLIT_ADDR", "10.0.0.2:16834")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings().ResetOnNewGame {
		t.Fatalf("expected reset on new game to be disabled")
	}
	if cfg.PollInterval != 16*time.Millisecond {
		t.Fatalf("expected 16ms, got %v", cfg.PollInterval)
	}
	if cfg.LiveSplitAddr != "10.0.0.2:16834" {
		t.Fatalf("expected override address, got %q", cfg.LiveSplitAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"COSMICSPLIT_RESET_ON_NEW_GAME": "maybe",
		"COSMICSPLIT_POLL_INTERVAL":     "0s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "parse env:") {
				t.Fatalf("expected parse env prefix, got %v", err)
			}
		})
	}
}

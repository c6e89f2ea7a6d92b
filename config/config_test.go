package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.TickInterval != GameTickInterval {
		t.Errorf("TickInterval = %v, want %v", cfg.TickInterval, GameTickInterval)
	}
	if cfg.AOIRadius != DefaultAOIRadius {
		t.Errorf("AOIRadius = %v, want %v", cfg.AOIRadius, DefaultAOIRadius)
	}
	if cfg.RespawnDelay != DefaultRespawnDelay {
		t.Errorf("RespawnDelay = %v, want %v", cfg.RespawnDelay, DefaultRespawnDelay)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("PLAYER_SPEED", "7.5")
	t.Setenv("TICK_INTERVAL", "50ms")
	t.Setenv("RESPAWN_DELAY", "3s")

	cfg := Load()
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.PlayerSpeed != 7.5 {
		t.Errorf("PlayerSpeed = %v, want 7.5", cfg.PlayerSpeed)
	}
	if cfg.TickInterval != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", cfg.TickInterval)
	}
	if cfg.RespawnDelay != 3*time.Second {
		t.Errorf("RespawnDelay = %v, want 3s", cfg.RespawnDelay)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PLAYER_SPEED", "fast")
	t.Setenv("TICK_INTERVAL", "soon")

	cfg := Load()
	if cfg.PlayerSpeed != DefaultPlayerSpeed {
		t.Errorf("PlayerSpeed = %v, want default %v", cfg.PlayerSpeed, DefaultPlayerSpeed)
	}
	if cfg.TickInterval != GameTickInterval {
		t.Errorf("TickInterval = %v, want default %v", cfg.TickInterval, GameTickInterval)
	}
}

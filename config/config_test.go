package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Server.Address())
	}
	if cfg.CheckIn.FeverThresholdF != 100.4 {
		t.Errorf("FeverThresholdF = %v, want 100.4", cfg.CheckIn.FeverThresholdF)
	}
	if len(cfg.CheckIn.WaitingAreas) == 0 {
		t.Error("default waiting areas missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHECKIN_FEVER_THRESHOLD_F", "99.5")
	t.Setenv("CHECKIN_WAITING_AREAS", "North Wing, South Wing")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.CheckIn.FeverThresholdF != 99.5 {
		t.Errorf("FeverThresholdF = %v, want 99.5", cfg.CheckIn.FeverThresholdF)
	}
	if got := cfg.CheckIn.WaitingAreas; len(got) != 2 || got[0] != "North Wing" || got[1] != "South Wing" {
		t.Errorf("WaitingAreas = %v", got)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "-1")
		if _, err := Load(); err == nil {
			t.Error("negative port should fail validation")
		}
	})

	t.Run("bad fever threshold", func(t *testing.T) {
		t.Setenv("CHECKIN_FEVER_THRESHOLD_F", "-5")
		if _, err := Load(); err == nil {
			t.Error("negative threshold should fail validation")
		}
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-number")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
		}
	})
}

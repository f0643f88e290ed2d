package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.MatchTolerance != 0.5 {
		t.Errorf("MatchTolerance = %g, want 0.5", cfg.MatchTolerance)
	}
	if cfg.MaxSegments != 5 {
		t.Errorf("MaxSegments = %d, want 5", cfg.MaxSegments)
	}
	if cfg.WrapWidth != 30 {
		t.Errorf("WrapWidth = %d, want 30", cfg.WrapWidth)
	}
	if cfg.GifRetention != 10*time.Minute {
		t.Errorf("GifRetention = %s, want 10m", cfg.GifRetention)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret not taken from environment")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MATCH_TOLERANCE", "1.25")
	t.Setenv("MAX_SEGMENTS", "3")
	t.Setenv("GIF_RETENTION", "30m")

	cfg := Load()

	if cfg.MatchTolerance != 1.25 {
		t.Errorf("MatchTolerance = %g, want 1.25", cfg.MatchTolerance)
	}
	if cfg.MaxSegments != 3 {
		t.Errorf("MaxSegments = %d, want 3", cfg.MaxSegments)
	}
	if cfg.GifRetention != 30*time.Minute {
		t.Errorf("GifRetention = %s, want 30m", cfg.GifRetention)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MATCH_TOLERANCE", "soon")
	t.Setenv("GIF_RETENTION", "-5m")

	cfg := Load()

	if cfg.MatchTolerance != 0.5 {
		t.Errorf("malformed MATCH_TOLERANCE should fall back to 0.5, got %g", cfg.MatchTolerance)
	}
	if cfg.GifRetention != 10*time.Minute {
		t.Errorf("non-positive GIF_RETENTION should fall back to 10m, got %s", cfg.GifRetention)
	}
}

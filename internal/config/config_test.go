package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected port 8080, got %s", cfg.Port)
		}
		if !cfg.Cache.Enabled {
			t.Error("expected cache enabled by default")
		}
		if cfg.TokenTTL != 72*time.Hour {
			t.Errorf("expected token ttl 72h, got %s", cfg.TokenTTL)
		}
		if cfg.StorageDir != "./storage" {
			t.Errorf("expected ./storage, got %s", cfg.StorageDir)
		}
		if cfg.SessionSecret == "" {
			t.Error("expected dev session secret fallback")
		}
	})

	t.Run("ProductionValidation", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("APP_ENV", "prod")
		_, err := Load()
		if err == nil {
			t.Error("expected error when SMTP_PASS is missing in production")
		}
	})

	t.Run("ProductionWithResend", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("APP_ENV", "prod")
		os.Setenv("RESEND_API_KEY", "re_123")
		os.Setenv("SESSION_SECRET", "s3cr3t")
		if _, err := Load(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("PORT", "9000")
		os.Setenv("CACHE_ENABLED", "false")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "9000" {
			t.Errorf("expected port 9000, got %s", cfg.Port)
		}
		if cfg.Cache.Enabled {
			t.Error("expected cache disabled")
		}
	})
}

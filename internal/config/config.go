package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT, default=8080"`
	BaseURL       string        `env:"BASE_URL, default=http://localhost:8080"`
	DatabaseURL   string        `env:"DATABASE_URL, default=./skystore.db"`
	SMTPHost      string        `env:"SMTP_HOST, default=localhost"`
	SMTPPort      string        `env:"SMTP_PORT, default=1025"`
	SMTPUser      string        `env:"SMTP_USER"`
	SMTPPass      string        `env:"SMTP_PASS"`
	SMTPFrom      string        `env:"SMTP_FROM, default=noreply@skystore.local"`
	ResendAPIKey  string        `env:"RESEND_API_KEY"`
	SessionSecret string        `env:"SESSION_SECRET"`
	TokenTTL      time.Duration `env:"CONFIRM_TOKEN_TTL, default=72h"`
	PolicyFile    string        `env:"POLICY_FILE"`
	StorageDir    string        `env:"STORAGE_DIR, default=./storage"`
	Env           string        `env:"APP_ENV, default=dev"` // "dev" or "prod"

	Cache CacheConfig
}

// CacheConfig controla o cache da página inicial.
type CacheConfig struct {
	Enabled   bool          `env:"CACHE_ENABLED, default=true"`
	RedisAddr string        `env:"CACHE_REDIS_ADDR"`
	RedisDB   int           `env:"CACHE_REDIS_DB, default=0"`
	TTL       time.Duration `env:"CACHE_TTL, default=5m"`
	Size      int           `env:"CACHE_SIZE, default=128"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	// Validação Estrita para Produção
	if cfg.Env == "prod" {
		if cfg.SMTPPass == "" && cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("produção: SMTP_PASS ou RESEND_API_KEY é obrigatório")
		}
		if cfg.SMTPUser == "" && cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("produção: SMTP_USER é obrigatório")
		}
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("produção: SESSION_SECRET é obrigatório")
		}
	} else {
		// No dev, se não houver secret, usamos um valor fraco apenas para não quebrar o boot
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = "dev-secret-keep-it-simple-but-not-safe"
		}
	}

	return &cfg, nil
}

package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/PauloHFS/skystore/internal/mailer"
	"golang.org/x/time/rate"
)

// MailRateConfig limita o envio para não estourar a cota do provedor.
type MailRateConfig struct {
	Rate  rate.Limit
	Burst int
}

var DefaultMailRate = MailRateConfig{Rate: 2, Burst: 5}

func newMailLimiter(cfg MailRateConfig) *rate.Limiter {
	return rate.NewLimiter(cfg.Rate, cfg.Burst)
}

func waitTurn(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}

// IsExternalRateLimitError detecta recusas por cota do provedor. Elas são
// registradas como falha comum, sem nova tentativa.
func IsExternalRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, mailer.ErrRateLimitExceeded) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "throttl")
}

package worker

import (
	"context"
	"log/slog"
)

// RescueZombies encerra como falhos os jobs que ficaram presos em
// 'processing' por um crash ou restart. E-mails não são reenviados.
func (p *Processor) RescueZombies(ctx context.Context) error {
	p.logger.Info("zombie hunter: searching for stuck jobs")
	n, err := p.queries.RescueZombies(ctx)
	if err != nil {
		p.logger.Error("zombie hunter: failed to rescue jobs", slog.String("error", err.Error()))
		return err
	}
	if n > 0 {
		p.logger.Warn("zombie hunter: stuck jobs marked as failed", slog.Int64("count", n))
	}
	return nil
}

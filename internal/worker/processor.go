package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/mailer"
	"github.com/PauloHFS/skystore/internal/metrics"
	"golang.org/x/time/rate"
)

const JobSendEmail = "send_email"

type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EnqueueEmail grava um job de envio. O worker tenta uma única vez.
func EnqueueEmail(ctx context.Context, q *db.Queries, to, subject, body string) (int64, error) {
	payload, err := json.Marshal(emailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return 0, fmt.Errorf("failed to encode email payload: %w", err)
	}
	id, err := q.CreateJob(ctx, db.CreateJobParams{Type: JobSendEmail, Payload: payload})
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue email: %w", err)
	}
	return id, nil
}

type Processor struct {
	queries  *db.Queries
	logger   *slog.Logger
	mailer   mailer.Sender
	limiter  *rate.Limiter
	interval time.Duration
	wg       sync.WaitGroup
}

func New(q *db.Queries, m mailer.Sender, l *slog.Logger) *Processor {
	return &Processor{
		queries:  q,
		logger:   l,
		mailer:   m,
		limiter:  newMailLimiter(DefaultMailRate),
		interval: time.Second,
	}
}

func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("worker started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker signal received: waiting for active jobs to finish")
			return
		case <-ticker.C:
			// esvazia a fila antes de dormir de novo
			for p.processNext(ctx) {
			}
		}
	}
}

// Wait blocks until all active jobs are finished
func (p *Processor) Wait() {
	p.wg.Wait()
}

// processNext executa um job e informa se havia algum na fila.
func (p *Processor) processNext(ctx context.Context) bool {
	p.wg.Add(1)
	defer p.wg.Done()

	start := time.Now()
	job, err := p.queries.PickNextJob(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) && ctx.Err() == nil {
			p.logger.ErrorContext(ctx, "failed to pick job", "error", err)
		}
		return false
	}

	ctx, event := logging.NewEventContext(ctx)
	event.Add(
		slog.Int64("job_id", job.ID),
		slog.String("job_type", job.Type),
	)

	var errProcessing error
	switch job.Type {
	case JobSendEmail:
		errProcessing = p.handleSendEmail(ctx, job.Payload)
	default:
		errProcessing = fmt.Errorf("unknown job type %q", job.Type)
	}

	// Ao encerrar o servidor o job ainda precisa ser fechado no banco.
	dbCtx := context.WithoutCancel(ctx)

	if errProcessing != nil {
		if err := p.queries.FailJob(dbCtx, db.FailJobParams{
			LastError: sql.NullString{String: errProcessing.Error(), Valid: true},
			ID:        job.ID,
		}); err != nil {
			p.logger.ErrorContext(ctx, "failed to record job failure in db", "error", err)
		}
		metrics.JobDuration.WithLabelValues(job.Type, "failed").Observe(time.Since(start).Seconds())
		metrics.JobsProcessed.WithLabelValues(job.Type, "failed").Inc()
		p.logger.ErrorContext(ctx, "job processing failed",
			append(event.Attrs(),
				slog.String("error", errProcessing.Error()),
				slog.Bool("rate_limited", IsExternalRateLimitError(errProcessing)),
			)...)
		return true
	}

	if err := p.queries.CompleteJob(dbCtx, job.ID); err != nil {
		p.logger.ErrorContext(ctx, "failed to complete job", "error", err)
		return true
	}

	duration := time.Since(start)
	metrics.JobDuration.WithLabelValues(job.Type, "success").Observe(duration.Seconds())
	metrics.JobsProcessed.WithLabelValues(job.Type, "success").Inc()
	event.Add(slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6))

	p.logger.InfoContext(ctx, "job completed", event.Attrs()...)
	return true
}

func (p *Processor) handleSendEmail(ctx context.Context, payload []byte) error {
	var data emailPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if data.To == "" {
		return errors.New("invalid payload: missing recipient")
	}

	if err := waitTurn(ctx, p.limiter); err != nil {
		return err
	}

	// o destinatário entra no log, o corpo não (pode conter senha)
	logging.AddToEvent(ctx, slog.String("to", data.To), slog.String("subject", data.Subject))
	return p.mailer.Send(ctx, data.To, data.Subject, data.Body)
}

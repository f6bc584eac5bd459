package db

import (
	"context"
	"database/sql"
	"encoding/json"
)

const getJob = `-- name: GetJob :one
SELECT id, type, CAST(payload AS BLOB), status, attempt_count, last_error, created_at, updated_at
FROM jobs WHERE id = ?`

func (q *Queries) GetJob(ctx context.Context, id int64) (Job, error) {
	var i Job
	err := q.db.QueryRowContext(ctx, getJob, id).Scan(
		&i.ID,
		&i.Type,
		&i.Payload,
		&i.Status,
		&i.AttemptCount,
		&i.LastError,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createJob = `-- name: CreateJob :one
INSERT INTO jobs (type, payload) VALUES (?, ?)
RETURNING id`

type CreateJobParams struct {
	Type    string
	Payload json.RawMessage
}

func (q *Queries) CreateJob(ctx context.Context, arg CreateJobParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createJob, arg.Type, []byte(arg.Payload)).Scan(&id)
	return id, err
}

const pickNextJob = `-- name: PickNextJob :one
UPDATE jobs
SET status = 'processing', attempt_count = attempt_count + 1, updated_at = CURRENT_TIMESTAMP
WHERE id = (
    SELECT id FROM jobs WHERE status = 'pending' ORDER BY id ASC LIMIT 1
)
RETURNING id`

// PickNextJob reserva o job pendente mais antigo. Retorna sql.ErrNoRows com a fila vazia.
func (q *Queries) PickNextJob(ctx context.Context) (Job, error) {
	var id int64
	if err := q.db.QueryRowContext(ctx, pickNextJob).Scan(&id); err != nil {
		return Job{}, err
	}
	return q.GetJob(ctx, id)
}

// O payload de e-mail carrega senhas geradas; ele é apagado quando o job termina.
const completeJob = `-- name: CompleteJob :exec
UPDATE jobs SET status = 'completed', payload = X'7B7D', updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) CompleteJob(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, completeJob, id)
	return err
}

const failJob = `-- name: FailJob :exec
UPDATE jobs SET status = 'failed', payload = X'7B7D', last_error = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

type FailJobParams struct {
	LastError sql.NullString
	ID        int64
}

func (q *Queries) FailJob(ctx context.Context, arg FailJobParams) error {
	_, err := q.db.ExecContext(ctx, failJob, arg.LastError, arg.ID)
	return err
}

const rescueZombies = `-- name: RescueZombies :execrows
UPDATE jobs SET status = 'failed', payload = X'7B7D', last_error = 'interrupted', updated_at = CURRENT_TIMESTAMP
WHERE status = 'processing'`

// RescueZombies encerra como falhos os jobs presos em 'processing'. Não há nova tentativa.
func (q *Queries) RescueZombies(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, rescueZombies)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countJobsByStatus = `-- name: CountJobsByStatus :one
SELECT COUNT(*) FROM jobs WHERE status = ?`

func (q *Queries) CountJobsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countJobsByStatus, status).Scan(&count)
	return count, err
}

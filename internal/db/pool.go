package db

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/PauloHFS/skystore/internal/config"
)

// DualPool separa leituras (várias conexões) da escrita (uma conexão), que é
// como o SQLite serializa escritores de qualquer forma.
type DualPool struct {
	Read  *sql.DB
	Write *sql.DB
}

type PoolConfig struct {
	ReadMaxOpen  int
	ReadMaxIdle  int
	WriteMaxOpen int
	WriteMaxIdle int
}

var defaultPoolConfig = PoolConfig{
	ReadMaxOpen:  runtime.NumCPU() * 2,
	ReadMaxIdle:  runtime.NumCPU(),
	WriteMaxOpen: 1,
	WriteMaxIdle: 1,
}

func NewDualPool(driver, path string, opts ...func(*PoolConfig)) (*DualPool, error) {
	cfg := defaultPoolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sqliteCfg := config.GetSQLiteConfig()
	dsn := sqliteCfg.DSN(path)

	readDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	readDB.SetMaxOpenConns(cfg.ReadMaxOpen)
	readDB.SetMaxIdleConns(cfg.ReadMaxIdle)
	readDB.SetConnMaxIdleTime(5 * time.Minute)
	readDB.SetConnMaxLifetime(time.Hour)

	writeDB, err := sql.Open(driver, dsn)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write pool: %w", err)
	}
	writeDB.SetMaxOpenConns(cfg.WriteMaxOpen)
	writeDB.SetMaxIdleConns(cfg.WriteMaxIdle)
	writeDB.SetConnMaxIdleTime(5 * time.Minute)
	writeDB.SetConnMaxLifetime(time.Hour)

	pool := &DualPool{
		Read:  readDB,
		Write: writeDB,
	}

	if err := sqliteCfg.ApplyPragmas(writeDB); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply write pragmas: %w", err)
	}
	if err := sqliteCfg.ApplyPragmas(readDB); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply read pragmas: %w", err)
	}

	return pool, nil
}

func WithReadPoolSize(maxOpen, maxIdle int) func(*PoolConfig) {
	return func(cfg *PoolConfig) {
		cfg.ReadMaxOpen = maxOpen
		cfg.ReadMaxIdle = maxIdle
	}
}

func (p *DualPool) Close() error {
	var errs []error
	if p.Read != nil {
		if err := p.Read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("read pool close: %w", err))
		}
	}
	if p.Write != nil {
		if err := p.Write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("write pool close: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing pools: %v", errs)
	}
	return nil
}

// WithTx roda fn numa transação da conexão de escrita. Dentro de fn use só o
// Queries recebido: a conexão única já está ocupada pela transação.
func (p *DualPool) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := p.Write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(New(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Ping verifica os dois pools.
func (p *DualPool) Ping(ctx context.Context) error {
	if err := p.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read pool: %w", err)
	}
	if err := p.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	return nil
}

func (p *DualPool) Queries() *Queries {
	return New(p.Read)
}

func (p *DualPool) QueriesWrite() *Queries {
	return New(p.Write)
}

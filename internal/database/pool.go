package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/skyle/internal/config"
)

// minRecorderConns covers one batch flush overlapping the session row
// update at Stop.
const minRecorderConns = 2

// minIdleTime keeps the flush connection warm between slow flushes.
const minIdleTime = 30 * time.Second

// Open connects to the recorder database, verifies the link and creates
// the recorder tables.
func Open(ctx context.Context, db config.DBConfig, rec config.RecorderConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(db, rec)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", db.Host, err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// poolConfig sizes the pool for the recorder. Sessions run in UTC so
// received_at round-trips unchanged.
func poolConfig(db config.DBConfig, rec config.RecorderConfig) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(BuildConnString(db))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	cfg.MaxConns = int32(max(db.MaxConns, minRecorderConns))
	cfg.MinConns = int32(min(db.MinConns, int(cfg.MaxConns)))
	cfg.MaxConnIdleTime = max(10*rec.FlushInterval, minIdleTime)
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	return cfg, nil
}

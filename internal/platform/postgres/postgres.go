// Package postgres builds pgx connection pools. The verification write path
// runs on a separate service-role pool so the row-level-security bypass is
// visible in wiring, not hidden in which client object happens to be used.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the full DDL for this service. Integration tests apply it to a
// fresh container; deployments run it via migrations.
//
//go:embed schema.sql
var Schema string

// NewPool connects a pgx pool and verifies the connection.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

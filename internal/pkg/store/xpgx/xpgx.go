// Package xpgx is a thin layer over pgxpool that accepts squirrel builders and
// scans into db-tagged structs.
package xpgx

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ougirez/transport-index/internal/pkg/logger"
)

type Pool interface {
	Selectx(ctx context.Context, dst interface{}, query sq.Sqlizer) error
	Getx(ctx context.Context, dst interface{}, query sq.Sqlizer) error
	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Close()
}

type pool struct {
	*pgxpool.Pool
}

// Connect opens a pool and pings it, retrying with a constant interval while the
// database is not reachable yet.
func Connect(ctx context.Context, dsn string, retries uint64, interval time.Duration) (Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	var p *pgxpool.Pool
	attempt := 0
	err = backoff.Retry(
		func() error {
			attempt++
			var connErr error
			p, connErr = pgxpool.NewWithConfig(ctx, cfg)
			if connErr != nil {
				return fmt.Errorf("pgxpool.NewWithConfig: %w", connErr)
			}
			if pingErr := p.Ping(ctx); pingErr != nil {
				p.Close()
				logger.Warnf(ctx, "postgres not ready (attempt %d): %s", attempt, pingErr.Error())
				return fmt.Errorf("ping: %w", pingErr)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), retries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "connected to postgres after %d attempt(s)", attempt)
	return &pool{p}, nil
}

func (p *pool) Selectx(ctx context.Context, dst interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Select(ctx, p.Pool, dst, sql, args...)
}

func (p *pool) Getx(ctx context.Context, dst interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Get(ctx, p.Pool, dst, sql, args...)
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.Pool.Exec(ctx, sql, args...)
}

func (p *pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return p.Pool.Exec(ctx, sql, args...)
}

func (p *pool) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return p.Pool.QueryRow(ctx, sql, args...)
}

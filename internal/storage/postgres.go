package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresGateway keeps each collection as a single jsonb row, keyed
// by kind. Same full-snapshot-per-mutation contract as the file
// gateway, just on a database that survives host loss.
type PostgresGateway struct {
	db  *sql.DB
	log *zap.Logger
}

func NewPostgresGateway(ctx context.Context, databaseURL string, log *zap.Logger) (*PostgresGateway, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS snapshots (
				kind       text PRIMARY KEY,
				data       jsonb NOT NULL,
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &PostgresGateway{db: db, log: log}, nil
}

func (g *PostgresGateway) Close() error { return g.db.Close() }

func (g *PostgresGateway) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, g.db.PingContext)
}

func (g *PostgresGateway) Load(ctx context.Context, kind string, v any) error {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return g.db.QueryRowContext(ctx, `
			SELECT data FROM snapshots WHERE kind = $1
		`, kind).Scan(&raw)
	})
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		g.log.Warn("snapshot unreadable, starting empty",
			zap.String("kind", kind), zap.Error(err))
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		g.log.Warn("snapshot corrupt, starting empty",
			zap.String("kind", kind), zap.Error(err))
	}
	return nil
}

func (g *PostgresGateway) Save(ctx context.Context, kind string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := g.db.ExecContext(ctx, `
			INSERT INTO snapshots (kind, data, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (kind) DO UPDATE
			SET data = EXCLUDED.data, updated_at = now()
		`, kind, raw)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

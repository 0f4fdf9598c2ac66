package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS conversation (
	sender_id  TEXT PRIMARY KEY,
	stage      TEXT NOT NULL,
	metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contribution (
	id         UUID PRIMARY KEY,
	sender_id  TEXT NOT NULL,
	task_type  TEXT NOT NULL DEFAULT '',
	audio_key  TEXT NOT NULL DEFAULT '',
	audio_url  TEXT NOT NULL DEFAULT '',
	age        INTEGER,
	gender     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS contribution_sender_created_idx
	ON contribution (sender_id, created_at DESC);
`

// EnsureSchema creates the tables used by this package if they are missing
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

package transcript

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL,
	username   TEXT,
	direction  TEXT NOT NULL,
	kind       TEXT NOT NULL,
	content    TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Message is one logged chat message, either direction.
type Message struct {
	SessionID string
	Username  string
	Direction string
	Kind      string
	Content   string
}

// Repo logs chat traffic to Postgres. A nil *Repo is a no-op, so the log is
// optional at runtime.
type Repo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Connect opens a pool against databaseURL and ensures the schema exists.
func Connect(ctx context.Context, databaseURL string, logger *slog.Logger) (*Repo, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure messages table: %w", err)
	}
	return &Repo{pool: pool, logger: logger.With("component", "transcript")}, nil
}

// Insert records a message. Failures are logged and swallowed; transcript
// logging never blocks a reply.
func (r *Repo) Insert(ctx context.Context, m Message) {
	if r == nil {
		return
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages(session_id, username, direction, kind, content) VALUES($1,$2,$3,$4,$5)`,
		m.SessionID, m.Username, m.Direction, m.Kind, m.Content,
	)
	if err != nil {
		r.logger.Warn("failed logging message", "error", err)
	}
}

// Close releases the pool.
func (r *Repo) Close() {
	if r == nil {
		return
	}
	r.pool.Close()
}

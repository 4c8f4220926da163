package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Postgres stores emotion events in a PostgreSQL table, for deployments
// where the JSONL file on local disk is not enough (several sensors feeding
// one database, retention queries, dashboards).
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to the database, verifies the connection and
// ensures the events table exists.
func OpenPostgres(url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS emotion_events (
			id BIGSERIAL PRIMARY KEY,
			ts DOUBLE PRECISION NOT NULL,
			person_id INTEGER NOT NULL,
			emotion TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Append inserts one event.
func (p *Postgres) Append(ctx context.Context, ev Event) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO emotion_events (ts, person_id, emotion, confidence)
		VALUES ($1, $2, $3, $4)
	`, ev.TS, ev.PersonID, ev.Emotion, ev.Confidence)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("closing database connection: %w", err)
	}
	return nil
}

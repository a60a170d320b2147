package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// ConnectPostgres opens the remote backend. A failed ping is returned to
// the caller but the handle stays usable: the gateway probes it per
// request and the backend may come up later.
func ConnectPostgres(dsn string, timeout time.Duration) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		return conn, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}
	return conn, nil
}

// EnsurePostgresSchema creates the tables the remote backend needs. Safe
// to call on every startup.
func EnsurePostgresSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			email         TEXT NOT NULL,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT users_email_key UNIQUE (email)
		);

		CREATE TABLE IF NOT EXISTS roster_entries (
			id           SERIAL PRIMARY KEY,
			user_id      INTEGER NOT NULL REFERENCES users (id),
			pokemon_id   INTEGER NOT NULL,
			pokemon_name TEXT NOT NULL,
			note         TEXT NOT NULL DEFAULT '',
			team         TEXT NOT NULL,
			captured_at  TIMESTAMPTZ NOT NULL,
			CONSTRAINT roster_entries_user_pokemon_key UNIQUE (user_id, pokemon_id)
		);

		CREATE INDEX IF NOT EXISTS idx_roster_user_team
			ON roster_entries (user_id, team);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure postgres schema: %w", err)
	}
	return nil
}

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// Default account present in the local store so the service is usable
// offline before anyone has registered.
const (
	seedUserEmail    = "trainer@pokemon.com"
	seedUserName     = "Red Trainer"
	seedUserPassword = "password123"
)

// OpenSQLite opens (and on first use creates) the durable local fallback
// store.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db path: %w", err)
	}

	// DSN notes:
	// - _pragma=busy_timeout sets a lock wait
	// - _pragma=journal_mode(WAL) enables the write-ahead log
	// - _pragma=synchronous(NORMAL) sets the disk synchronizing
	//	 mode to NORMAL (recommended with WAL enabled)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(dbPath))

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := initSQLiteSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := seedSQLiteUser(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func initSQLiteSchema(conn *sql.DB) error {
	// AUTOINCREMENT (rather than bare rowid) so released entry ids are
	// never handed out again.
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT    NOT NULL UNIQUE,
			name          TEXT    NOT NULL,
			password_hash TEXT    NOT NULL,
			created_at    INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS roster_entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      INTEGER NOT NULL,
			pokemon_id   INTEGER NOT NULL,
			pokemon_name TEXT    NOT NULL,
			note         TEXT    NOT NULL DEFAULT '',
			team         TEXT    NOT NULL,
			captured_at  INTEGER NOT NULL,
			UNIQUE (user_id, pokemon_id)
		);

		CREATE INDEX IF NOT EXISTS idx_roster_user_team
			ON roster_entries (user_id, team);
	`)
	if err != nil {
		return fmt.Errorf("failed to init sqlite schema: %w", err)
	}
	return nil
}

func seedSQLiteUser(conn *sql.DB) error {
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	_, err = conn.Exec(
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (1, ?, ?, ?, ?)`,
		seedUserEmail,
		seedUserName,
		string(hash),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to seed default user: %w", err)
	}
	return nil
}

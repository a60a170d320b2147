package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poketeams/pokedex-api/models"
)

type sqliteRosterRepository struct {
	db *sql.DB
}

func NewSQLiteRosterRepository(db *sql.DB) RosterRepository {
	return &sqliteRosterRepository{db: db}
}

func (r *sqliteRosterRepository) ListByUser(ctx context.Context, userID int) ([]models.RosterEntry, error) {
	query := `
		SELECT id, user_id, pokemon_id, pokemon_name, note, team, captured_at
		FROM roster_entries
		WHERE user_id = ?
		ORDER BY captured_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.RosterEntry, 0)
	for rows.Next() {
		entry, err := scanSQLiteRosterEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *sqliteRosterRepository) GetByID(ctx context.Context, userID, entryID int) (*models.RosterEntry, error) {
	query := `
		SELECT id, user_id, pokemon_id, pokemon_name, note, team, captured_at
		FROM roster_entries
		WHERE id = ? AND user_id = ?`

	row := r.db.QueryRowContext(ctx, query, entryID, userID)
	entry, err := scanSQLiteRosterEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRosterEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (r *sqliteRosterRepository) Create(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		INSERT INTO roster_entries (user_id, pokemon_id, pokemon_name, note, team, captured_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		entry.UserID,
		entry.PokemonID,
		entry.PokemonName,
		entry.Note,
		entry.Team,
		entry.CapturedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: roster_entries") {
			return ErrRosterSpeciesConflict
		}
		return fmt.Errorf("failed to insert roster entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted roster entry id: %w", err)
	}
	entry.ID = int(id)
	return nil
}

func (r *sqliteRosterRepository) Update(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		UPDATE roster_entries SET
			note = ?,
			team = ?
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		entry.Note,
		entry.Team,
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update roster entry: %w", err)
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrRosterEntryNotFound
	}
	return nil
}

func (r *sqliteRosterRepository) Delete(ctx context.Context, userID, entryID int) error {
	query := `DELETE FROM roster_entries WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrRosterEntryNotFound
	}
	return nil
}

func scanSQLiteRosterEntry(scan func(dest ...any) error) (*models.RosterEntry, error) {
	var (
		entry        models.RosterEntry
		capturedUnix int64
	)
	if err := scan(
		&entry.ID,
		&entry.UserID,
		&entry.PokemonID,
		&entry.PokemonName,
		&entry.Note,
		&entry.Team,
		&capturedUnix,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan roster entry: %w", err)
	}
	entry.CapturedAt = time.Unix(capturedUnix, 0).UTC()
	return &entry, nil
}

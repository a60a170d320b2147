package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/poketeams/pokedex-api/models"
)

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) ListByUser(ctx context.Context, userID int) ([]models.RosterEntry, error) {
	query := `
		SELECT id, user_id, pokemon_id, pokemon_name, note, team, captured_at
		FROM roster_entries
		WHERE user_id = $1
		ORDER BY captured_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.RosterEntry, 0)
	for rows.Next() {
		var entry models.RosterEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.PokemonID,
			&entry.PokemonName,
			&entry.Note,
			&entry.Team,
			&entry.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *postgresRosterRepository) GetByID(ctx context.Context, userID, entryID int) (*models.RosterEntry, error) {
	query := `
		SELECT id, user_id, pokemon_id, pokemon_name, note, team, captured_at
		FROM roster_entries
		WHERE id = $1 AND user_id = $2`

	var entry models.RosterEntry
	err := r.db.QueryRowContext(ctx, query, entryID, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.PokemonID,
		&entry.PokemonName,
		&entry.Note,
		&entry.Team,
		&entry.CapturedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRosterEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan roster entry: %w", err)
	}
	return &entry, nil
}

func (r *postgresRosterRepository) Create(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		INSERT INTO roster_entries (user_id, pokemon_id, pokemon_name, note, team, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID,
		entry.PokemonID,
		entry.PokemonName,
		entry.Note,
		entry.Team,
		entry.CapturedAt,
	).Scan(&entry.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "roster_entries_user_pokemon_key" {
				return ErrRosterSpeciesConflict
			}
		}
		return fmt.Errorf("failed to insert roster entry: %w", err)
	}
	return nil
}

func (r *postgresRosterRepository) Update(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		UPDATE roster_entries SET
			note = $1,
			team = $2
		WHERE id = $3 AND user_id = $4`

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

func (r *postgresRosterRepository) Delete(ctx context.Context, userID, entryID int) error {
	query := `DELETE FROM roster_entries WHERE id = $1 AND user_id = $2`

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

package repositories

import (
	"context"
	"errors"

	"github.com/poketeams/pokedex-api/models"
)

var (
	ErrRosterEntryNotFound   = errors.New("roster entry not found")
	ErrRosterSpeciesConflict = errors.New("species already present in roster")
)

// RosterRepository is raw record access only. Capacity and uniqueness
// rules live in the service layer so both backends share one
// implementation of them; the unique-index mapping here is a backstop.
type RosterRepository interface {
	ListByUser(ctx context.Context, userID int) ([]models.RosterEntry, error)
	GetByID(ctx context.Context, userID, entryID int) (*models.RosterEntry, error)
	Create(ctx context.Context, entry *models.RosterEntry) error
	Update(ctx context.Context, entry *models.RosterEntry) error
	Delete(ctx context.Context, userID, entryID int) error
}

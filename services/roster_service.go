package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poketeams/pokedex-api/models"
	"github.com/poketeams/pokedex-api/repositories"
)

const listEnrichConcurrency = 8

// DetailSource is the slice of the catalog the roster service needs for
// enriching listings.
type DetailSource interface {
	Detail(ctx context.Context, idOrName string) (*models.PokemonDetail, error)
}

type CaptureInput struct {
	PokemonID   int    `json:"pokemon_id"`
	PokemonName string `json:"pokemon_name"`
	Note        string `json:"note"`
	Team        string `json:"team"`
}

// UpdateInput carries partial updates; nil means "leave unchanged".
type UpdateInput struct {
	Note *string `json:"note"`
	Team *string `json:"team"`
}

type RosterService interface {
	List(ctx context.Context, userID int) ([]models.RosterEntry, error)
	Capture(ctx context.Context, userID int, input CaptureInput) (*models.RosterEntry, error)
	Update(ctx context.Context, userID, entryID int, input UpdateInput) (*models.RosterEntry, error)
	Release(ctx context.Context, userID, entryID int) error
}

// rosterService holds every capacity and uniqueness rule in one place,
// shared by both persistence backends. Mutations serialize on a per-user
// lock so the rule check and the write behind it are atomic.
type rosterService struct {
	gateway *Gateway
	source  DetailSource

	mu        sync.Mutex
	userLocks map[int]*sync.Mutex
}

func NewRosterService(gateway *Gateway, source DetailSource) RosterService {
	return &rosterService{
		gateway:   gateway,
		source:    source,
		userLocks: make(map[int]*sync.Mutex),
	}
}

func (s *rosterService) userLock(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

func (s *rosterService) List(ctx context.Context, userID int) ([]models.RosterEntry, error) {
	backend := s.gateway.Select(ctx)

	entries, err := backend.Rosters.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for user %d: %w", userID, err)
	}

	// Enrichment failures degrade per entry: the entry comes back
	// without details instead of failing the whole listing.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listEnrichConcurrency)
	for i := range entries {
		g.Go(func() error {
			detail, err := s.source.Detail(gctx, strconv.Itoa(entries[i].PokemonID))
			if err == nil {
				entries[i].Details = detail
			}
			return nil
		})
	}
	_ = g.Wait()

	return entries, nil
}

func (s *rosterService) Capture(ctx context.Context, userID int, input CaptureInput) (*models.RosterEntry, error) {
	if input.PokemonID <= 0 {
		return nil, fmt.Errorf("%w: pokemon_id must be positive", ErrValidationFailed)
	}
	if input.PokemonName == "" {
		return nil, fmt.Errorf("%w: pokemon_name is required", ErrValidationFailed)
	}

	team := input.Team
	if team == "" {
		team = models.DefaultTeam
	}
	if !models.ValidTeamLabel(team) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTeam, team)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	backend := s.gateway.Select(ctx)

	entries, err := backend.Rosters.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for user %d: %w", userID, err)
	}

	teamCount := 0
	for _, e := range entries {
		if e.PokemonID == input.PokemonID {
			return nil, ErrDuplicateSpecies
		}
		if e.Team == team {
			teamCount++
		}
	}
	if teamCount >= models.TeamCapacity {
		return nil, fmt.Errorf("%w: team %q already holds %d pokémon", ErrTeamFull, team, models.TeamCapacity)
	}

	entry := &models.RosterEntry{
		UserID:      userID,
		PokemonID:   input.PokemonID,
		PokemonName: input.PokemonName,
		Note:        input.Note,
		Team:        team,
		CapturedAt:  time.Now().UTC(),
	}
	if err := backend.Rosters.Create(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrRosterSpeciesConflict) {
			return nil, ErrDuplicateSpecies
		}
		return nil, fmt.Errorf("failed to create roster entry: %w", err)
	}
	return entry, nil
}

func (s *rosterService) Update(ctx context.Context, userID, entryID int, input UpdateInput) (*models.RosterEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	backend := s.gateway.Select(ctx)

	entry, err := backend.Rosters.GetByID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return nil, ErrRosterEntryNotFound
		}
		return nil, fmt.Errorf("failed to get roster entry %d: %w", entryID, err)
	}

	// Capacity is re-checked against the destination team only; a no-op
	// team change never fails regardless of occupancy.
	if input.Team != nil && *input.Team != entry.Team {
		team := *input.Team
		if !models.ValidTeamLabel(team) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTeam, team)
		}

		entries, err := backend.Rosters.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roster for user %d: %w", userID, err)
		}
		teamCount := 0
		for _, e := range entries {
			if e.Team == team {
				teamCount++
			}
		}
		if teamCount >= models.TeamCapacity {
			return nil, fmt.Errorf("%w: team %q already holds %d pokémon", ErrTeamFull, team, models.TeamCapacity)
		}
		entry.Team = team
	}

	if input.Note != nil {
		entry.Note = *input.Note
	}

	if err := backend.Rosters.Update(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return nil, ErrRosterEntryNotFound
		}
		return nil, fmt.Errorf("failed to update roster entry %d: %w", entryID, err)
	}
	return entry, nil
}

func (s *rosterService) Release(ctx context.Context, userID, entryID int) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	backend := s.gateway.Select(ctx)

	if err := backend.Rosters.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return ErrRosterEntryNotFound
		}
		return fmt.Errorf("failed to delete roster entry %d: %w", entryID, err)
	}
	return nil
}

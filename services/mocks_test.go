package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/poketeams/pokedex-api/models"
	"github.com/poketeams/pokedex-api/pokeapi"
	"github.com/poketeams/pokedex-api/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memRosterRepo is an in-memory RosterRepository with monotonically
// increasing, never-reused ids.
type memRosterRepo struct {
	mu      sync.Mutex
	entries map[int]models.RosterEntry
	nextID  int
}

func newMemRosterRepo() *memRosterRepo {
	return &memRosterRepo{
		entries: make(map[int]models.RosterEntry),
		nextID:  1,
	}
}

func (m *memRosterRepo) ListByUser(ctx context.Context, userID int) ([]models.RosterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.RosterEntry, 0)
	for id := 1; id < m.nextID; id++ {
		if e, ok := m.entries[id]; ok && e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRosterRepo) GetByID(ctx context.Context, userID, entryID int) (*models.RosterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok || e.UserID != userID {
		return nil, repositories.ErrRosterEntryNotFound
	}
	copied := e
	return &copied, nil
}

func (m *memRosterRepo) Create(ctx context.Context, entry *models.RosterEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.UserID == entry.UserID && e.PokemonID == entry.PokemonID {
			return repositories.ErrRosterSpeciesConflict
		}
	}
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = *entry
	return nil
}

func (m *memRosterRepo) Update(ctx context.Context, entry *models.RosterEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return repositories.ErrRosterEntryNotFound
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *memRosterRepo) Delete(ctx context.Context, userID, entryID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok || e.UserID != userID {
		return repositories.ErrRosterEntryNotFound
	}
	delete(m.entries, entryID)
	return nil
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu     sync.Mutex
	users  map[int]models.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:  make(map[int]models.User),
		nextID: 1,
	}
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// stubDetailSource serves canned details and can be told to fail.
type stubDetailSource struct {
	details map[string]*models.PokemonDetail
	err     error
}

func (s *stubDetailSource) Detail(ctx context.Context, idOrName string) (*models.PokemonDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.details[idOrName]; ok {
		return d, nil
	}
	return nil, pokeapi.ErrSpeciesNotFound
}

// stubPinger flips between healthy and unreachable.
type stubPinger struct {
	mu  sync.Mutex
	err error
}

func (p *stubPinger) PingContext(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *stubPinger) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func localOnlyGateway(rosters repositories.RosterRepository, users repositories.UserRepository) *Gateway {
	local := &Backend{Rosters: rosters, Users: users}
	return NewGateway(nil, local, DefaultProbeTimeout, discardLogger())
}

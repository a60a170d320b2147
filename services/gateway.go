package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poketeams/pokedex-api/repositories"
)

// Mode names which backend served the last routed request.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// DefaultProbeTimeout bounds the liveness probe; this is the only
// deliberate timeout in the data path.
const DefaultProbeTimeout = 1 * time.Second

// Pinger is the liveness probe surface of the remote backend.
// *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Backend bundles one realization of the persistence contract. Remote
// and local backends are interchangeable; all business rules live above
// them.
type Backend struct {
	Rosters repositories.RosterRepository
	Users   repositories.UserRepository
	Pinger  Pinger
}

// Gateway routes persistence operations to the remote backend when its
// liveness probe passes and to the durable local fallback otherwise. The
// decision is made per request, never sticky: a later probe success
// switches back to remote. Data written while local is not merged back
// into remote when connectivity returns.
type Gateway struct {
	remote       *Backend
	local        *Backend
	probeTimeout time.Duration
	logger       *slog.Logger

	mu   sync.Mutex
	mode Mode
}

func NewGateway(remote, local *Backend, probeTimeout time.Duration, logger *slog.Logger) *Gateway {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Gateway{
		remote:       remote,
		local:        local,
		probeTimeout: probeTimeout,
		logger:       logger,
		mode:         ModeLocal,
	}
}

// Select probes the remote backend and returns the backend to use for
// the current request.
func (g *Gateway) Select(ctx context.Context) *Backend {
	if g.remote == nil || g.remote.Pinger == nil {
		g.setMode(ModeLocal, nil)
		return g.local
	}

	probeCtx, cancel := context.WithTimeout(ctx, g.probeTimeout)
	defer cancel()

	if err := g.remote.Pinger.PingContext(probeCtx); err != nil {
		g.setMode(ModeLocal, err)
		return g.local
	}
	g.setMode(ModeRemote, nil)
	return g.remote
}

// Mode reports the backend chosen by the most recent probe.
func (g *Gateway) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

func (g *Gateway) setMode(mode Mode, cause error) {
	g.mu.Lock()
	changed := g.mode != mode
	g.mode = mode
	g.mu.Unlock()

	if !changed || g.logger == nil {
		return
	}
	switch mode {
	case ModeLocal:
		g.logger.Warn("remote backend unreachable, serving from local store", slog.Any("error", cause))
	case ModeRemote:
		g.logger.Info("remote backend reachable again, serving from remote store")
	}
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poketeams/pokedex-api/models"
	"github.com/poketeams/pokedex-api/pokeapi"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	enrichConcurrency = 8
)

// Source is the slice of the upstream catalog the engine depends on.
// *pokeapi.Client satisfies it.
type Source interface {
	ListPage(ctx context.Context, limit, offset int) (int, []models.SpeciesRef, error)
	ListByType(ctx context.Context, typeName string) ([]models.SpeciesRef, error)
	Summary(ctx context.Context, ref models.SpeciesRef) (*models.PokemonSummary, error)
	Detail(ctx context.Context, idOrName string) (*models.PokemonDetail, error)
}

// Engine composes the generation, type and name filters over the raw
// source, which has no combined filtering of its own, and paginates the
// composed result.
type Engine struct {
	source Source
}

func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Query runs one catalog query. Count is the size of the fully filtered
// set before pagination, so callers can page past the end and still see
// the true total.
func (e *Engine) Query(ctx context.Context, q models.CatalogQuery) (*models.CatalogPage, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	gen, hasGen := Generations[q.Generation]

	switch {
	case hasGen:
		return e.queryGeneration(ctx, q, gen)
	case q.Type != "":
		return e.queryType(ctx, q)
	case q.Search != "":
		return e.querySearch(ctx, q)
	default:
		return e.queryNative(ctx, q)
	}
}

// queryGeneration fetches the whole id range for the generation, then
// narrows by type membership and name substring before paginating.
func (e *Engine) queryGeneration(ctx context.Context, q models.CatalogQuery, gen GenerationRange) (*models.CatalogPage, error) {
	size := gen.End - gen.Start + 1
	_, refs, err := e.source.ListPage(ctx, size, gen.Start-1)
	if err != nil {
		return nil, fmt.Errorf("fetching generation %s: %w", q.Generation, err)
	}

	if q.Type != "" {
		typeRefs, err := e.source.ListByType(ctx, q.Type)
		if err != nil {
			return nil, fmt.Errorf("fetching type %s: %w", q.Type, err)
		}
		members := make(map[string]struct{}, len(typeRefs))
		for _, r := range typeRefs {
			members[r.Name] = struct{}{}
		}
		refs = intersectByName(refs, members)
	}

	refs = filterBySubstring(refs, q.Search)

	page := slicePage(refs, q.Offset, q.Limit)
	results, err := e.enrich(ctx, page)
	if err != nil {
		return nil, err
	}
	return &models.CatalogPage{Count: len(refs), Results: results}, nil
}

// queryType uses the type membership list as the base set.
func (e *Engine) queryType(ctx context.Context, q models.CatalogQuery) (*models.CatalogPage, error) {
	refs, err := e.source.ListByType(ctx, q.Type)
	if err != nil {
		return nil, fmt.Errorf("fetching type %s: %w", q.Type, err)
	}

	refs = filterBySubstring(refs, q.Search)

	page := slicePage(refs, q.Offset, q.Limit)
	results, err := e.enrich(ctx, page)
	if err != nil {
		return nil, err
	}
	return &models.CatalogPage{Count: len(refs), Results: results}, nil
}

// querySearch handles a bare search with no generation/type filter. The
// upstream has no substring-search endpoint, so the term is treated as an
// exact name or numeric id; a miss yields an empty page, not an error.
func (e *Engine) querySearch(ctx context.Context, q models.CatalogQuery) (*models.CatalogPage, error) {
	d, err := e.source.Detail(ctx, strings.ToLower(q.Search))
	if err != nil {
		if errors.Is(err, pokeapi.ErrSpeciesNotFound) {
			return &models.CatalogPage{Count: 0, Results: []models.PokemonSummary{}}, nil
		}
		return nil, fmt.Errorf("looking up %q: %w", q.Search, err)
	}
	return &models.CatalogPage{Count: 1, Results: []models.PokemonSummary{d.PokemonSummary}}, nil
}

// queryNative delegates pagination to the source when no filter is given.
func (e *Engine) queryNative(ctx context.Context, q models.CatalogQuery) (*models.CatalogPage, error) {
	count, refs, err := e.source.ListPage(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog page: %w", err)
	}
	results, err := e.enrich(ctx, refs)
	if err != nil {
		return nil, err
	}
	return &models.CatalogPage{Count: count, Results: results}, nil
}

// enrich resolves each reference on the page into a display record,
// preserving order. Failures abort the whole page; a partially enriched
// page would lie about the filter result.
func (e *Engine) enrich(ctx context.Context, refs []models.SpeciesRef) ([]models.PokemonSummary, error) {
	results := make([]models.PokemonSummary, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, ref := range refs {
		g.Go(func() error {
			s, err := e.source.Summary(gctx, ref)
			if err != nil {
				return fmt.Errorf("enriching %s: %w", ref.Name, err)
			}
			results[i] = *s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func intersectByName(refs []models.SpeciesRef, members map[string]struct{}) []models.SpeciesRef {
	out := refs[:0:0]
	for _, r := range refs {
		if _, ok := members[r.Name]; ok {
			out = append(out, r)
		}
	}
	return out
}

func filterBySubstring(refs []models.SpeciesRef, search string) []models.SpeciesRef {
	if search == "" {
		return refs
	}
	needle := strings.ToLower(search)
	out := refs[:0:0]
	for _, r := range refs {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

func slicePage(refs []models.SpeciesRef, offset, limit int) []models.SpeciesRef {
	if offset >= len(refs) {
		return nil
	}
	end := offset + limit
	if end > len(refs) {
		end = len(refs)
	}
	return refs[offset:end]
}

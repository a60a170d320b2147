package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poketeams/pokedex-api/models"
	"github.com/poketeams/pokedex-api/pokeapi"
)

// fakeSource emulates the upstream catalog: a fixed ordered species list
// with native offset/limit pagination, per-type membership lists, and
// exact-match detail lookup.
type fakeSource struct {
	names    map[int]string   // id -> name, defaults to "species-<id>"
	typeSets map[string][]int // type -> member ids
	size     int
	fail     bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		names: map[int]string{
			1:   "bulbasaur",
			4:   "charmander",
			6:   "charizard",
			25:  "pikachu",
			155: "cyndaquil",
		},
		typeSets: map[string][]int{
			"fire":     {4, 6, 155},
			"electric": {25},
		},
		size: 1025,
	}
}

func (f *fakeSource) name(id int) string {
	if n, ok := f.names[id]; ok {
		return n
	}
	return fmt.Sprintf("species-%d", id)
}

func (f *fakeSource) ref(id int) models.SpeciesRef {
	return models.SpeciesRef{
		Name: f.name(id),
		URL:  fmt.Sprintf("https://catalog.test/pokemon/%d/", id),
	}
}

func (f *fakeSource) ListPage(ctx context.Context, limit, offset int) (int, []models.SpeciesRef, error) {
	if f.fail {
		return 0, nil, fmt.Errorf("list page: %w", pokeapi.ErrSourceUnavailable)
	}
	var refs []models.SpeciesRef
	for id := offset + 1; id <= f.size && len(refs) < limit; id++ {
		refs = append(refs, f.ref(id))
	}
	return f.size, refs, nil
}

func (f *fakeSource) ListByType(ctx context.Context, typeName string) ([]models.SpeciesRef, error) {
	if f.fail {
		return nil, fmt.Errorf("list type: %w", pokeapi.ErrSourceUnavailable)
	}
	var refs []models.SpeciesRef
	for _, id := range f.typeSets[typeName] {
		refs = append(refs, f.ref(id))
	}
	return refs, nil
}

func (f *fakeSource) Summary(ctx context.Context, ref models.SpeciesRef) (*models.PokemonSummary, error) {
	if f.fail {
		return nil, fmt.Errorf("summary: %w", pokeapi.ErrSourceUnavailable)
	}
	var id int
	if _, err := fmt.Sscanf(ref.URL, "https://catalog.test/pokemon/%d/", &id); err != nil {
		return nil, fmt.Errorf("summary: %w", pokeapi.ErrSpeciesNotFound)
	}
	return &models.PokemonSummary{
		ID:    id,
		Name:  ref.Name,
		Image: fmt.Sprintf("https://catalog.test/artwork/%d.png", id),
		Types: []string{"normal"},
	}, nil
}

func (f *fakeSource) Detail(ctx context.Context, idOrName string) (*models.PokemonDetail, error) {
	if f.fail {
		return nil, fmt.Errorf("detail: %w", pokeapi.ErrSourceUnavailable)
	}
	for id := 1; id <= f.size; id++ {
		if f.name(id) == idOrName || fmt.Sprintf("%d", id) == idOrName {
			s, _ := f.Summary(ctx, f.ref(id))
			return &models.PokemonDetail{PokemonSummary: *s, Height: 7, Weight: 69}, nil
		}
	}
	return nil, fmt.Errorf("detail: %w", pokeapi.ErrSpeciesNotFound)
}

func TestQuery_NoFilters_UsesNativePagination(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Limit: 3, Offset: 10})
	require.NoError(t, err)

	assert.Equal(t, 1025, page.Count)
	require.Len(t, page.Results, 3)
	assert.Equal(t, 11, page.Results[0].ID)
	assert.Equal(t, 13, page.Results[2].ID)
}

func TestQuery_GenerationFilter(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Limit: 10, Offset: 145})
	require.NoError(t, err)

	// Generation 1 holds 151 species; the last page has 6 of them.
	assert.Equal(t, 151, page.Count)
	require.Len(t, page.Results, 6)
	assert.Equal(t, 146, page.Results[0].ID)
	assert.Equal(t, 151, page.Results[5].ID)
}

func TestQuery_GenerationTypeIntersection(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	// Fire types are 4, 6 and 155; only the first two fall in gen 1.
	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Type: "fire", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "charmander", page.Results[0].Name)
	assert.Equal(t, "charizard", page.Results[1].Name)
}

func TestQuery_GenerationTypeSearch(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Type: "fire", Search: "izard", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "charizard", page.Results[0].Name)
}

func TestQuery_TypeFilterAlone(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Type: "fire", Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "charmander", page.Results[0].Name)
}

// A bare search is an exact name/id lookup; combined with another filter
// the same term becomes a substring match. The asymmetry is intentional:
// the upstream has no substring-search endpoint, so a bare partial term
// has nothing to match against.
func TestQuery_BareSearchIsExactMatchOnly(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	hit, err := engine.Query(context.Background(), models.CatalogQuery{Search: "pikachu", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, hit.Count)
	require.Len(t, hit.Results, 1)
	assert.Equal(t, 25, hit.Results[0].ID)

	// Partial term: empty result, not an error.
	miss, err := engine.Query(context.Background(), models.CatalogQuery{Search: "pika", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, miss.Count)
	assert.Empty(t, miss.Results)

	// The same partial term does match once a generation narrows the set.
	narrowed, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Search: "pika", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, narrowed.Count)
	require.Len(t, narrowed.Results, 1)
	assert.Equal(t, "pikachu", narrowed.Results[0].Name)
}

func TestQuery_BareSearchByNumericID(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Search: "25", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "pikachu", page.Results[0].Name)
}

func TestQuery_OffsetPastEndKeepsTotal(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Type: "fire", Limit: 20, Offset: 10})
	require.NoError(t, err)

	// Callers use the count to disable next-page navigation.
	assert.Equal(t, 2, page.Count)
	assert.Empty(t, page.Results)
}

func TestQuery_EmptyFilteredSet(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "9", Type: "electric", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 0, page.Count)
	assert.Empty(t, page.Results)
}

func TestQuery_SearchIsCaseInsensitive(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Search: "PIKA", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
}

func TestQuery_SourceFailurePropagates(t *testing.T) {
	source := newFakeSource()
	source.fail = true
	engine := NewEngine(source)

	_, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "1", Limit: 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, pokeapi.ErrSourceUnavailable)
	assert.False(t, strings.Contains(err.Error(), "not found"))
}

func TestQuery_UnknownGenerationFallsThrough(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	// An unrecognized generation id behaves as if absent; the type
	// filter takes over as the base set.
	page, err := engine.Query(context.Background(), models.CatalogQuery{Generation: "42", Type: "fire", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
}

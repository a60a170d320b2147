package pokeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poketeams/pokedex-api/models"
)

const pikachuJSON = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"sprites": {
		"front_default": "https://sprites.test/25.png",
		"other": {
			"official-artwork": {"front_default": "https://artwork.test/25.png"}
		}
	},
	"types": [
		{"slot": 1, "type": {"name": "electric"}}
	],
	"abilities": [
		{"ability": {"name": "static"}},
		{"ability": {"name": "lightning-rod"}}
	],
	"stats": [
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 55, "stat": {"name": "attack"}},
		{"base_stat": 40, "stat": {"name": "defense"}},
		{"base_stat": 50, "stat": {"name": "special-attack"}},
		{"base_stat": 50, "stat": {"name": "special-defense"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	]
}`

// Same shape but without high-resolution artwork.
const dittoJSON = `{
	"id": 132,
	"name": "ditto",
	"sprites": {
		"front_default": "https://sprites.test/132.png",
		"other": {"official-artwork": {"front_default": ""}}
	},
	"types": [{"slot": 1, "type": {"name": "normal"}}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/pokemon/pikachu", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pikachuJSON)
	})
	mux.HandleFunc("/pokemon/25", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pikachuJSON)
	})
	mux.HandleFunc("/pokemon/ditto", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, dittoJSON)
	})
	mux.HandleFunc("/pokemon/missingno", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/pokemon/slowpoke", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	mux.HandleFunc("/pokemon", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"count": 1025,
			"results": [
				{"name": "bulbasaur", "url": "https://pokeapi.test/pokemon/1/"},
				{"name": "ivysaur", "url": "https://pokeapi.test/pokemon/2/"}
			]
		}`)
	})
	mux.HandleFunc("/type/electric", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"pokemon": [
				{"pokemon": {"name": "pikachu", "url": "https://pokeapi.test/pokemon/25/"}},
				{"pokemon": {"name": "raichu", "url": "https://pokeapi.test/pokemon/26/"}}
			]
		}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_ListPage(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	count, refs, err := client.ListPage(context.Background(), 2, 0)
	require.NoError(t, err)

	assert.Equal(t, 1025, count)
	require.Len(t, refs, 2)
	assert.Equal(t, models.SpeciesRef{Name: "bulbasaur", URL: "https://pokeapi.test/pokemon/1/"}, refs[0])
}

func TestClient_ListByType(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	refs, err := client.ListByType(context.Background(), "Electric")
	require.NoError(t, err)

	require.Len(t, refs, 2)
	assert.Equal(t, "pikachu", refs[0].Name)
	assert.Equal(t, "raichu", refs[1].Name)
}

func TestClient_Detail_FieldMapping(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	d, err := client.Detail(context.Background(), "Pikachu")
	require.NoError(t, err)

	assert.Equal(t, 25, d.ID)
	assert.Equal(t, "pikachu", d.Name)
	assert.Equal(t, "https://artwork.test/25.png", d.Image, "high-resolution artwork wins over the sprite")
	assert.Equal(t, []string{"electric"}, d.Types)
	assert.Equal(t, 4, d.Height)
	assert.Equal(t, 60, d.Weight)
	assert.Equal(t, []string{"static", "lightning-rod"}, d.Abilities)
	assert.Equal(t, models.PokemonStats{
		HP:             35,
		Attack:         55,
		Defense:        40,
		SpecialAttack:  50,
		SpecialDefense: 50,
		Speed:          90,
	}, d.Stats)
}

func TestClient_Detail_SpriteFallback(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	d, err := client.Detail(context.Background(), "ditto")
	require.NoError(t, err)

	assert.Equal(t, "https://sprites.test/132.png", d.Image)
}

func TestClient_Summary_ByName(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	s, err := client.Summary(context.Background(), models.SpeciesRef{Name: "pikachu"})
	require.NoError(t, err)

	assert.Equal(t, 25, s.ID)
	assert.Equal(t, "https://artwork.test/25.png", s.Image)
}

func TestClient_Summary_PrefersRefURL(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	ref := models.SpeciesRef{Name: "whatever", URL: server.URL + "/pokemon/25"}
	s, err := client.Summary(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "pikachu", s.Name)
}

func TestClient_Detail_NotFound(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	_, err := client.Detail(context.Background(), "missingno")
	assert.ErrorIs(t, err, ErrSpeciesNotFound)
}

func TestClient_Detail_UpstreamError(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	_, err := client.Detail(context.Background(), "slowpoke")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestClient_TransportErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on
	client := NewClient(server.URL)

	_, _, err := client.ListPage(context.Background(), 20, 0)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

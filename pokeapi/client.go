package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poketeams/pokedex-api/models"
)

const DefaultBaseURL = "https://pokeapi.co/api/v2"

var (
	// ErrSpeciesNotFound means the upstream explicitly reported absence.
	ErrSpeciesNotFound = errors.New("species not found in catalog")
	// ErrSourceUnavailable covers transport failures and unexpected
	// upstream statuses; callers may retry.
	ErrSourceUnavailable = errors.New("catalog source unavailable")
)

// Client is a thin fetch layer over the upstream species catalog.
// No caching, no retries; orchestration belongs to the query engine.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type listResponse struct {
	Count   int                 `json:"count"`
	Results []models.SpeciesRef `json:"results"`
}

type typeResponse struct {
	Pokemon []struct {
		Pokemon models.SpeciesRef `json:"pokemon"`
	} `json:"pokemon"`
}

type pokemonResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Height  int    `json:"height"`
	Weight  int    `json:"weight"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrSourceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrSpeciesNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: upstream returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrSourceUnavailable, err)
	}
	return nil
}

// ListPage fetches one page of the raw catalog using the source's native
// offset/limit pagination. The returned count is the full catalog size.
func (c *Client) ListPage(ctx context.Context, limit, offset int) (int, []models.SpeciesRef, error) {
	u := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)
	var list listResponse
	if err := c.getJSON(ctx, u, &list); err != nil {
		return 0, nil, err
	}
	return list.Count, list.Results, nil
}

// ListByType fetches the full membership list for one type tag.
func (c *Client) ListByType(ctx context.Context, typeName string) ([]models.SpeciesRef, error) {
	u := fmt.Sprintf("%s/type/%s", c.baseURL, url.PathEscape(strings.ToLower(typeName)))
	var tr typeResponse
	if err := c.getJSON(ctx, u, &tr); err != nil {
		return nil, err
	}
	refs := make([]models.SpeciesRef, 0, len(tr.Pokemon))
	for _, p := range tr.Pokemon {
		refs = append(refs, p.Pokemon)
	}
	return refs, nil
}

// Summary resolves a list reference into a display record. The ref URL is
// preferred when present; otherwise the name is looked up directly.
func (c *Client) Summary(ctx context.Context, ref models.SpeciesRef) (*models.PokemonSummary, error) {
	target := ref.URL
	if target == "" {
		target = fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(strings.ToLower(ref.Name)))
	}
	var pr pokemonResponse
	if err := c.getJSON(ctx, target, &pr); err != nil {
		return nil, err
	}
	s := pr.summary()
	return &s, nil
}

// Detail fetches the full species record by numeric id or name.
func (c *Client) Detail(ctx context.Context, idOrName string) (*models.PokemonDetail, error) {
	u := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(strings.ToLower(idOrName)))
	var pr pokemonResponse
	if err := c.getJSON(ctx, u, &pr); err != nil {
		return nil, err
	}

	d := &models.PokemonDetail{
		PokemonSummary: pr.summary(),
		Height:         pr.Height,
		Weight:         pr.Weight,
		Abilities:      make([]string, 0, len(pr.Abilities)),
	}
	for _, a := range pr.Abilities {
		d.Abilities = append(d.Abilities, a.Ability.Name)
	}
	for _, st := range pr.Stats {
		switch st.Stat.Name {
		case "hp":
			d.Stats.HP = st.BaseStat
		case "attack":
			d.Stats.Attack = st.BaseStat
		case "defense":
			d.Stats.Defense = st.BaseStat
		case "special-attack":
			d.Stats.SpecialAttack = st.BaseStat
		case "special-defense":
			d.Stats.SpecialDefense = st.BaseStat
		case "speed":
			d.Stats.Speed = st.BaseStat
		}
	}
	return d, nil
}

func (pr *pokemonResponse) summary() models.PokemonSummary {
	// Prefer the high-resolution artwork, fall back to the default sprite.
	image := pr.Sprites.Other.OfficialArtwork.FrontDefault
	if image == "" {
		image = pr.Sprites.FrontDefault
	}
	types := make([]string, 0, len(pr.Types))
	for _, t := range pr.Types {
		types = append(types, t.Type.Name)
	}
	return models.PokemonSummary{
		ID:    pr.ID,
		Name:  pr.Name,
		Image: image,
		Types: types,
	}
}

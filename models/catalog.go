package models

// SpeciesRef is an unenriched catalog reference as the upstream source
// returns it from list endpoints.
type SpeciesRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type PokemonSummary struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Types []string `json:"types"`
}

type PokemonStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

type PokemonDetail struct {
	PokemonSummary
	Height    int          `json:"height"`
	Weight    int          `json:"weight"`
	Abilities []string     `json:"abilities"`
	Stats     PokemonStats `json:"stats"`
}

// CatalogQuery carries the three independent filter dimensions plus
// pagination. Zero values mean "filter absent".
type CatalogQuery struct {
	Generation string
	Type       string
	Search     string
	Limit      int
	Offset     int
}

type CatalogPage struct {
	Count   int              `json:"count"`
	Results []PokemonSummary `json:"results"`
}

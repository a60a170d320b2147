package models

import "time"

// TeamCapacity is the hard limit of entries per (user, team) pair.
const TeamCapacity = 6

// DefaultTeam is where captures land when no team is given.
const DefaultTeam = "Personal"

// TeamLabels is the closed set of valid team names.
var TeamLabels = []string{DefaultTeam, "Alpha", "Beta", "Gamma", "Delta", "Omega"}

func ValidTeamLabel(label string) bool {
	for _, l := range TeamLabels {
		if l == label {
			return true
		}
	}
	return false
}

type RosterEntry struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	PokemonID   int       `json:"pokemon_id" db:"pokemon_id"`
	PokemonName string    `json:"pokemon_name" db:"pokemon_name"`
	Note        string    `json:"note,omitempty" db:"note"`
	Team        string    `json:"team" db:"team"`
	CapturedAt  time.Time `json:"captured_at" db:"captured_at"`

	// Details is filled from the catalog when listing; nil when the
	// detail fetch failed (the entry is still returned).
	Details *PokemonDetail `json:"details,omitempty" db:"-"`
}

package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Roster business rules
	ErrRosterEntryNotFound = errors.New("roster entry not found")
	ErrDuplicateSpecies    = errors.New("pokémon already captured in your collection")
	ErrTeamFull            = errors.New("team is already full")
	ErrInvalidTeam         = errors.New("unknown team label")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrUserNotFound           = errors.New("user not found")
)

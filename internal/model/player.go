package model

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// PrimaryUserName is the canonical name of the player that must always
// exist and can never be deactivated or renamed.
const PrimaryUserName = "TeJay"

// LegacyYouName is the reserved player name used by old data files;
// it is folded into the primary user on load.
const LegacyYouName = "You"

// Player represents a scorable participant
type Player struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"isActive"`
	AllTimeScore int       `json:"allTimeScore"`
}

// UnmarshalJSON applies defaults for absent fields: a fresh ID and
// active status
func (p *Player) UnmarshalJSON(data []byte) error {
	type player struct {
		ID           *uuid.UUID `json:"id"`
		Name         string     `json:"name"`
		IsActive     *bool      `json:"isActive"`
		AllTimeScore int        `json:"allTimeScore"`
	}
	var raw player
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID != nil {
		p.ID = *raw.ID
	} else {
		p.ID = uuid.New()
	}
	p.Name = raw.Name
	p.IsActive = true
	if raw.IsActive != nil {
		p.IsActive = *raw.IsActive
	}
	p.AllTimeScore = raw.AllTimeScore
	return nil
}

// NewPlayer creates an active player with a fresh ID and zero score
func NewPlayer(name string) Player {
	return Player{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
}

// IsPrimary reports whether this player is the primary user
func (p *Player) IsPrimary() bool {
	return IsPrimaryName(p.Name)
}

// IsPrimaryName reports whether a name case-insensitively matches the
// primary user's canonical name
func IsPrimaryName(name string) bool {
	return strings.EqualFold(name, PrimaryUserName)
}

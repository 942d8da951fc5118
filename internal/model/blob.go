package model

import "encoding/json"

// PersistBlob is the durable root aggregating all persisted state. It is
// versionless but tolerant: every field has a safe default when absent,
// so blobs written by any prior release decode cleanly.
type PersistBlob struct {
	Players             []Player        `json:"players"`
	Categories          []string        `json:"categories"`
	Games               []GameRecord    `json:"games"` // newest first
	EnableBonusFastest  bool            `json:"enableBonusFastest"`
	EnableBonusWildcard bool            `json:"enableBonusWildcard"`
	InProgress          *InProgressGame `json:"inProgress"`
}

// UnmarshalJSON applies the documented defaults for missing fields:
// empty lists, bonuses enabled, no in-progress game.
func (b *PersistBlob) UnmarshalJSON(data []byte) error {
	type persistBlob struct {
		Players             []Player        `json:"players"`
		Categories          []string        `json:"categories"`
		Games               []GameRecord    `json:"games"`
		EnableBonusFastest  *bool           `json:"enableBonusFastest"`
		EnableBonusWildcard *bool           `json:"enableBonusWildcard"`
		InProgress          *InProgressGame `json:"inProgress"`
	}
	var raw persistBlob
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Players = raw.Players
	if b.Players == nil {
		b.Players = []Player{}
	}
	b.Categories = raw.Categories
	if b.Categories == nil {
		b.Categories = []string{}
	}
	b.Games = raw.Games
	if b.Games == nil {
		b.Games = []GameRecord{}
	}
	b.EnableBonusFastest = true
	if raw.EnableBonusFastest != nil {
		b.EnableBonusFastest = *raw.EnableBonusFastest
	}
	b.EnableBonusWildcard = true
	if raw.EnableBonusWildcard != nil {
		b.EnableBonusWildcard = *raw.EnableBonusWildcard
	}
	b.InProgress = raw.InProgress
	return nil
}

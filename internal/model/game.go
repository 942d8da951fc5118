package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PlayerScore pairs a player ID with an integer score inside a snapshot
type PlayerScore struct {
	ID    uuid.UUID `json:"id"`
	Score int       `json:"score"`
}

// RoundEntry is one player's row within a committed round. The display
// name is captured at commit time so historical rounds survive renames.
type RoundEntry struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Delta int       `json:"delta"`
}

// UnmarshalJSON tolerates old saves that predate the name field
func (e *RoundEntry) UnmarshalJSON(data []byte) error {
	type roundEntry struct {
		ID    uuid.UUID `json:"id"`
		Name  *string   `json:"name"`
		Delta int       `json:"delta"`
	}
	var raw roundEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Delta = raw.Delta
	if raw.Name != nil {
		e.Name = *raw.Name
	} else {
		e.Name = "Player"
	}
	return nil
}

// RoundSnapshot records all deltas committed in a single round
type RoundSnapshot struct {
	ID      uuid.UUID    `json:"id"`
	Index   int          `json:"index"` // 1-based round number
	Entries []RoundEntry `json:"entries"`
}

// InProgressGame is the resumable projection of an active game. At most
// one exists at a time.
type InProgressGame struct {
	ParticipantIDs []uuid.UUID     `json:"participantIDs"`
	Scores         []PlayerScore   `json:"scores"`
	Round          int             `json:"round"`
	StartedAt      time.Time       `json:"startedAt"`
	RoundsDetail   []RoundSnapshot `json:"roundsDetail"`
}

// UnmarshalJSON applies safe defaults for any missing field
func (g *InProgressGame) UnmarshalJSON(data []byte) error {
	type inProgressGame struct {
		ParticipantIDs []uuid.UUID     `json:"participantIDs"`
		Scores         []PlayerScore   `json:"scores"`
		Round          *int            `json:"round"`
		StartedAt      *time.Time      `json:"startedAt"`
		RoundsDetail   []RoundSnapshot `json:"roundsDetail"`
	}
	var raw inProgressGame
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.ParticipantIDs = raw.ParticipantIDs
	if g.ParticipantIDs == nil {
		g.ParticipantIDs = []uuid.UUID{}
	}
	g.Scores = raw.Scores
	if g.Scores == nil {
		g.Scores = []PlayerScore{}
	}
	g.Round = 1
	if raw.Round != nil {
		g.Round = *raw.Round
	}
	g.StartedAt = time.Now()
	if raw.StartedAt != nil {
		g.StartedAt = *raw.StartedAt
	}
	g.RoundsDetail = raw.RoundsDetail
	if g.RoundsDetail == nil {
		g.RoundsDetail = []RoundSnapshot{}
	}
	return nil
}

// GameEntry is a finalized (name, score) pair within a GameRecord
type GameEntry struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// GameRecord is a finished game. Immutable once inserted into history.
type GameRecord struct {
	ID           uuid.UUID       `json:"id"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Rounds       int             `json:"rounds"`
	Entries      []GameEntry     `json:"entries"`
	RoundsDetail []RoundSnapshot `json:"roundsDetail"`
}

// UnmarshalJSON maps legacy records forward: old saves carried a single
// date field which populates both start and end.
func (r *GameRecord) UnmarshalJSON(data []byte) error {
	type gameRecord struct {
		ID           *uuid.UUID      `json:"id"`
		Start        *time.Time      `json:"start"`
		End          *time.Time      `json:"end"`
		Date         *time.Time      `json:"date"`
		Rounds       *int            `json:"rounds"`
		Entries      []GameEntry     `json:"entries"`
		RoundsDetail []RoundSnapshot `json:"roundsDetail"`
	}
	var raw gameRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID != nil {
		r.ID = *raw.ID
	} else {
		r.ID = uuid.New()
	}
	if raw.Rounds != nil {
		r.Rounds = *raw.Rounds
	}
	r.Entries = raw.Entries
	if r.Entries == nil {
		r.Entries = []GameEntry{}
	}
	r.RoundsDetail = raw.RoundsDetail
	if r.RoundsDetail == nil {
		r.RoundsDetail = []RoundSnapshot{}
	}
	switch {
	case raw.Start != nil && raw.End != nil:
		r.Start = *raw.Start
		r.End = *raw.End
	case raw.Date != nil:
		r.Start = *raw.Date
		r.End = *raw.Date
	default:
		now := time.Now()
		r.Start = now
		r.End = now
	}
	return nil
}

// Package scoring implements the session scoring engine: per-round
// delta capture, commit-round semantics, and end-of-game rollup into
// all-time totals and a finalized game record.
package scoring

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bulbousnub/wats-go/internal/dependencies/clock"
	"github.com/bulbousnub/wats-go/internal/model"
	"github.com/bulbousnub/wats-go/internal/store"
)

// Default point awards surfaced to the UI layer
const (
	DefaultPoints = 3 // full correct guess
	PartialPoints = 1 // partial credit
	FastestBonus  = 1 // gated by the fastest-answer setting
	WildcardBonus = 5 // gated by the wildcard setting
)

// Engine holds the live state of the active game. Every user-visible
// mutation updates the store's in-progress snapshot so the game
// survives a restart.
type Engine struct {
	store  *store.Store
	clock  clock.Clock
	logger *slog.Logger

	participants  []uuid.UUID // ordered
	sessionScores map[uuid.UUID]int
	roundDeltas   map[uuid.UUID]int
	round         int
	startedAt     time.Time
	roundsDetail  []model.RoundSnapshot
}

// New creates an engine and rehydrates it from the store's in-progress
// snapshot, or seeds a fresh session from the active roster.
func New(st *store.Store, clk clock.Clock, logger *slog.Logger) *Engine {
	e := &Engine{
		store:  st,
		clock:  clk,
		logger: logger.With(slog.String("component", "scoring")),
	}
	e.restoreOrSeed()
	return e
}

// restoreOrSeed loads the persisted snapshot if one exists. Stale
// participant IDs are pruned and missing delta entries zero-filled.
func (e *Engine) restoreOrSeed() {
	ip := e.store.InProgress()
	if ip == nil {
		e.seedFromRoster()
		return
	}

	known := make(map[uuid.UUID]bool)
	for _, p := range e.store.Players() {
		known[p.ID] = true
	}

	e.participants = nil
	for _, id := range ip.ParticipantIDs {
		if known[id] {
			e.participants = append(e.participants, id)
		}
	}

	e.sessionScores = make(map[uuid.UUID]int)
	for _, ps := range ip.Scores {
		if known[ps.ID] {
			e.sessionScores[ps.ID] = ps.Score
		}
	}

	e.roundDeltas = make(map[uuid.UUID]int)
	for _, id := range e.participants {
		e.roundDeltas[id] = 0
	}

	e.round = ip.Round
	if e.round < 1 {
		e.round = 1
	}
	e.startedAt = ip.StartedAt
	e.roundsDetail = ip.RoundsDetail
	e.logger.Info("restored in-progress game",
		slog.Int("round", e.round),
		slog.Int("participants", len(e.participants)))
}

// seedFromRoster prepares in-memory state only. Nothing is written to
// disk until the first real mutation, so merely constructing the engine
// never leaves a snapshot claiming a game is underway.
func (e *Engine) seedFromRoster() {
	e.participants = nil
	e.sessionScores = make(map[uuid.UUID]int)
	e.roundDeltas = make(map[uuid.UUID]int)
	for _, p := range e.store.Players() {
		if p.IsActive {
			e.participants = append(e.participants, p.ID)
			e.sessionScores[p.ID] = 0
			e.roundDeltas[p.ID] = 0
		}
	}
	e.round = 1
	e.startedAt = e.clock.Now()
	e.roundsDetail = nil
}

// Add awards points to a participant within the current round. The
// session total is clamped at zero, but the round delta records what
// was attempted so negative awards still show in the round history.
func (e *Engine) Add(points int, playerID uuid.UUID) {
	e.sessionScores[playerID] += points
	e.roundDeltas[playerID] += points
	if e.sessionScores[playerID] < 0 {
		e.sessionScores[playerID] = 0
	}
	e.persist()
}

// CommitCurrentRound snapshots the current deltas into the round
// history, capturing each participant's display name now, then starts
// the next round with zeroed deltas.
func (e *Engine) CommitCurrentRound() {
	entries := make([]model.RoundEntry, 0, len(e.participants))
	for _, id := range e.participants {
		entries = append(entries, model.RoundEntry{
			ID:    id,
			Name:  e.displayName(id),
			Delta: e.roundDeltas[id],
		})
	}
	e.roundsDetail = append(e.roundsDetail, model.RoundSnapshot{
		ID:      uuid.New(),
		Index:   e.round,
		Entries: entries,
	})

	e.round++
	for id := range e.roundDeltas {
		e.roundDeltas[id] = 0
	}
	e.persist()
}

// EndGame commits any uncommitted deltas as a final round, records the
// finished game, rolls session scores into all-time totals, clears the
// in-progress snapshot, and resets the session.
func (e *Engine) EndGame() model.GameRecord {
	for _, d := range e.roundDeltas {
		if d != 0 {
			e.CommitCurrentRound()
			break
		}
	}

	entries := make([]model.GameEntry, 0, len(e.participants))
	for _, id := range e.participants {
		entries = append(entries, model.GameEntry{
			PlayerName: e.displayName(id),
			Score:      e.sessionScores[id],
		})
	}

	rounds := e.round - 1
	if rounds < 1 {
		rounds = 1
	}
	record := model.GameRecord{
		ID:           uuid.New(),
		Start:        e.startedAt,
		End:          e.clock.Now(),
		Rounds:       rounds,
		Entries:      entries,
		RoundsDetail: e.roundsDetail,
	}
	e.store.AddGame(record)

	for _, id := range e.participants {
		if delta := e.sessionScores[id]; delta != 0 {
			e.store.AddPoints(delta, id)
		}
	}

	e.store.ClearInProgress()
	e.resetState()

	e.logger.Info("game ended",
		slog.Int("rounds", record.Rounds),
		slog.Int("players", len(record.Entries)))
	return record
}

// ResetSession zeroes all session state but keeps the participants
func (e *Engine) ResetSession() {
	for id := range e.sessionScores {
		e.sessionScores[id] = 0
	}
	e.roundDeltas = make(map[uuid.UUID]int)
	e.roundsDetail = nil
	e.round = 1
	e.startedAt = e.clock.Now()
	e.persist()
}

// SetParticipants replaces the in-game roster. Scores and deltas for
// removed players are pruned; new players start at zero.
func (e *Engine) SetParticipants(ids []uuid.UUID) {
	e.participants = make([]uuid.UUID, len(ids))
	copy(e.participants, ids)

	keep := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
		if _, ok := e.sessionScores[id]; !ok {
			e.sessionScores[id] = 0
		}
		if _, ok := e.roundDeltas[id]; !ok {
			e.roundDeltas[id] = 0
		}
	}
	for id := range e.sessionScores {
		if !keep[id] {
			delete(e.sessionScores, id)
		}
	}
	for id := range e.roundDeltas {
		if !keep[id] {
			delete(e.roundDeltas, id)
		}
	}
	e.persist()
}

// Participants returns the ordered in-game roster
func (e *Engine) Participants() []uuid.UUID {
	out := make([]uuid.UUID, len(e.participants))
	copy(out, e.participants)
	return out
}

// SessionScore returns a participant's current session total
func (e *Engine) SessionScore(id uuid.UUID) int {
	return e.sessionScores[id]
}

// RoundDelta returns the points a participant earned this round so far
func (e *Engine) RoundDelta(id uuid.UUID) int {
	return e.roundDeltas[id]
}

// Round returns the 1-based current round number
func (e *Engine) Round() int {
	return e.round
}

// StartedAt returns when the session began
func (e *Engine) StartedAt() time.Time {
	return e.startedAt
}

// RoundsDetail returns the committed round history for this game
func (e *Engine) RoundsDetail() []model.RoundSnapshot {
	out := make([]model.RoundSnapshot, len(e.roundsDetail))
	copy(out, e.roundsDetail)
	return out
}

func (e *Engine) displayName(id uuid.UUID) string {
	if p, ok := e.store.FindPlayer(id); ok {
		return p.Name
	}
	return "Player"
}

func (e *Engine) resetState() {
	for id := range e.sessionScores {
		e.sessionScores[id] = 0
	}
	e.roundDeltas = make(map[uuid.UUID]int)
	for _, id := range e.participants {
		e.roundDeltas[id] = 0
	}
	e.roundsDetail = nil
	e.round = 1
	e.startedAt = e.clock.Now()
}

func (e *Engine) persist() {
	scores := make(map[uuid.UUID]int, len(e.participants))
	for _, id := range e.participants {
		scores[id] = e.sessionScores[id]
	}
	e.store.UpdateInProgress(e.participants, scores, e.round, e.startedAt, e.roundsDetail)
}

// Package store owns all durable game state: players, categories,
// finished-game history, settings, and the in-progress snapshot. It is
// the single writer of the data file; every mutation saves atomically
// and notifies subscribed observers.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bulbousnub/wats-go/internal/model"
)

// Store is the source of truth for persisted state. The in-memory copy
// is authoritative for the running session even if a save fails.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger

	players             []model.Player
	categories          []string
	games               []model.GameRecord // newest first
	enableBonusFastest  bool
	enableBonusWildcard bool
	inProgress          *model.InProgressGame

	observers []chan struct{}
}

// New creates a store backed by the file at path and loads it. A missing
// or undecodable file leaves the fresh-install defaults in place.
func New(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:                path,
		logger:              logger.With(slog.String("component", "store")),
		players:             defaultPlayers(),
		categories:          defaultCategories(),
		games:               []model.GameRecord{},
		enableBonusFastest:  true,
		enableBonusWildcard: true,
	}
	s.Load()
	return s
}

// Load reads the data file, applies migration, and saves the normalized
// form back to disk. Decode errors keep the current in-memory state.
func (s *Store) Load() {
	s.mu.Lock()

	data, err := os.ReadFile(s.path)
	if err == nil {
		var blob model.PersistBlob
		if decErr := json.Unmarshal(data, &blob); decErr != nil {
			s.logger.Warn("data file corrupt, keeping defaults", slog.Any("error", decErr))
		} else {
			s.applyBlobLocked(&blob)
		}
	} else if !os.IsNotExist(err) {
		s.logger.Warn("data file unreadable, keeping defaults", slog.Any("error", err))
	}

	s.migrateLocked()
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// Save serializes the full blob and writes it atomically
func (s *Store) Save() {
	s.mu.Lock()
	s.saveLocked()
	s.mu.Unlock()
}

// Subscribe returns a channel that receives a signal after every
// mutation. Signals are dropped, not queued, when the receiver lags.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.observers = append(s.observers, ch)
	return ch
}

// Player operations

// AddPlayer adds a player by name, trimming whitespace and rejecting
// empty names. Adding a name matching an existing player (ignoring
// case) re-activates that player instead. Attempts to add the reserved
// legacy name create the primary user.
func (s *Store) AddPlayer(name string) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return
	}
	if strings.EqualFold(clean, model.LegacyYouName) {
		clean = model.PrimaryUserName
	}

	s.mu.Lock()
	found := false
	for i := range s.players {
		if strings.EqualFold(s.players[i].Name, clean) {
			s.players[i].IsActive = true
			found = true
			break
		}
	}
	if !found {
		s.players = append(s.players, model.NewPlayer(clean))
	}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// SetActive updates a player's active flag. The primary user is always
// active; requests against it are ignored.
func (s *Store) SetActive(id uuid.UUID, active bool) {
	s.mu.Lock()
	changed := false
	for i := range s.players {
		if s.players[i].ID == id {
			if s.players[i].IsPrimary() {
				break
			}
			s.players[i].IsActive = active
			changed = true
			break
		}
	}
	if changed {
		s.saveLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// RemovePlayer soft-removes a player by marking it inactive. The
// primary user cannot be removed.
func (s *Store) RemovePlayer(id uuid.UUID) {
	s.SetActive(id, false)
}

// RenamePlayer changes a player's display name. The primary user keeps
// its canonical name, and blank names are ignored.
func (s *Store) RenamePlayer(id uuid.UUID, name string) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.players {
		if s.players[i].ID == id {
			if s.players[i].IsPrimary() || model.IsPrimaryName(clean) {
				break
			}
			s.players[i].Name = clean
			changed = true
			break
		}
	}
	if changed {
		s.saveLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// AddPoints adds a signed delta to a player's all-time score. No clamp
// is applied here; negative totals support undo at this level.
func (s *Store) AddPoints(delta int, id uuid.UUID) {
	s.mu.Lock()
	for i := range s.players {
		if s.players[i].ID == id {
			s.players[i].AllTimeScore += delta
			break
		}
	}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// ResetAllTime zeroes every player's all-time score
func (s *Store) ResetAllTime() {
	s.mu.Lock()
	for i := range s.players {
		s.players[i].AllTimeScore = 0
	}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// Players returns a copy of the roster
func (s *Store) Players() []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, len(s.players))
	copy(out, s.players)
	return out
}

// FindPlayer returns the player with the given ID
func (s *Store) FindPlayer(id uuid.UUID) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return model.Player{}, false
}

// PrimaryPlayer returns the primary user. The migration pass guarantees
// it exists after load.
func (s *Store) PrimaryPlayer() model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.IsPrimary() {
			return p
		}
	}
	return model.Player{}
}

// Category operations

// AddCategory appends a category label, ignoring blank input
func (s *Store) AddCategory(label string) {
	clean := strings.TrimSpace(label)
	if clean == "" {
		return
	}
	s.mu.Lock()
	s.categories = append(s.categories, clean)
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// RemoveCategory removes the category at the given position
func (s *Store) RemoveCategory(index int) {
	s.mu.Lock()
	changed := false
	if index >= 0 && index < len(s.categories) {
		s.categories = append(s.categories[:index], s.categories[index+1:]...)
		changed = true
	}
	if changed {
		s.saveLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Categories returns a copy of the ordered category list
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Game history operations

// AddGame prepends a finished game to history; newest first
func (s *Store) AddGame(record model.GameRecord) {
	s.mu.Lock()
	s.games = append([]model.GameRecord{record}, s.games...)
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// ClearRecentGames empties the history list, leaving players untouched
func (s *Store) ClearRecentGames() {
	s.mu.Lock()
	s.games = []model.GameRecord{}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// Games returns a copy of the history list, newest first
func (s *Store) Games() []model.GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GameRecord, len(s.games))
	copy(out, s.games)
	return out
}

// Settings operations

// SetBonusFastest toggles the fastest-answer bonus button
func (s *Store) SetBonusFastest(enabled bool) {
	s.mu.Lock()
	s.enableBonusFastest = enabled
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// SetBonusWildcard toggles the wildcard bonus button
func (s *Store) SetBonusWildcard(enabled bool) {
	s.mu.Lock()
	s.enableBonusWildcard = enabled
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// BonusFastestEnabled reports whether the fastest bonus is available
func (s *Store) BonusFastestEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enableBonusFastest
}

// BonusWildcardEnabled reports whether the wildcard bonus is available
func (s *Store) BonusWildcardEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enableBonusWildcard
}

// In-progress snapshot operations

// UpdateInProgress replaces the resumable snapshot, preserving the
// given participant order. Missing score entries default to zero.
func (s *Store) UpdateInProgress(
	participantIDs []uuid.UUID,
	sessionScores map[uuid.UUID]int,
	round int,
	startedAt time.Time,
	roundsDetail []model.RoundSnapshot,
) {
	ids := make([]uuid.UUID, len(participantIDs))
	copy(ids, participantIDs)
	scores := make([]model.PlayerScore, len(ids))
	for i, id := range ids {
		scores[i] = model.PlayerScore{ID: id, Score: sessionScores[id]}
	}
	detail := make([]model.RoundSnapshot, len(roundsDetail))
	copy(detail, roundsDetail)

	s.mu.Lock()
	s.inProgress = &model.InProgressGame{
		ParticipantIDs: ids,
		Scores:         scores,
		Round:          round,
		StartedAt:      startedAt,
		RoundsDetail:   detail,
	}
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// ClearInProgress drops the resumable snapshot after End Game
func (s *Store) ClearInProgress() {
	s.mu.Lock()
	s.inProgress = nil
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
}

// InProgress returns the current snapshot, or nil if none exists
func (s *Store) InProgress() *model.InProgressGame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inProgress == nil {
		return nil
	}
	cp := *s.inProgress
	return &cp
}

// Blob returns a copy of the full durable state
func (s *Store) Blob() model.PersistBlob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blobLocked()
}

// Path returns the location of the canonical data file
func (s *Store) Path() string {
	return s.path
}

// Internals

func (s *Store) blobLocked() model.PersistBlob {
	blob := model.PersistBlob{
		Players:             make([]model.Player, len(s.players)),
		Categories:          make([]string, len(s.categories)),
		Games:               make([]model.GameRecord, len(s.games)),
		EnableBonusFastest:  s.enableBonusFastest,
		EnableBonusWildcard: s.enableBonusWildcard,
	}
	copy(blob.Players, s.players)
	copy(blob.Categories, s.categories)
	copy(blob.Games, s.games)
	if s.inProgress != nil {
		cp := *s.inProgress
		blob.InProgress = &cp
	}
	return blob
}

func (s *Store) applyBlobLocked(blob *model.PersistBlob) {
	s.players = blob.Players
	s.categories = blob.Categories
	s.games = blob.Games
	s.enableBonusFastest = blob.EnableBonusFastest
	s.enableBonusWildcard = blob.EnableBonusWildcard
	s.inProgress = blob.InProgress
}

// saveLocked writes the blob to disk. Write failures are logged and
// swallowed; the in-memory state stays authoritative for the session.
func (s *Store) saveLocked() {
	blob := s.blobLocked()
	data, err := json.Marshal(&blob)
	if err != nil {
		s.logger.Error("failed to encode data file", slog.Any("error", err))
		return
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.logger.Error("failed to write data file",
			slog.String("path", s.path),
			slog.Any("error", err))
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.observers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

package store

import (
	"log/slog"

	"github.com/bulbousnub/wats-go/internal/model"
)

// migrateLocked normalizes decoded state so the primary-user invariant
// holds: fold any legacy "You" player into the primary, then make sure
// the primary exists. Runs on every load and after backup import.
func (s *Store) migrateLocked() {
	s.migrateYouToPrimaryLocked()
	s.ensurePrimaryExistsLocked()
}

// migrateYouToPrimaryLocked renames or merges a player literally named
// "You" into the primary user. Merging adds the legacy score to the
// primary's total and ORs the active flags; renaming preserves the ID.
func (s *Store) migrateYouToPrimaryLocked() {
	youIdx := -1
	for i := range s.players {
		if s.players[i].Name == model.LegacyYouName {
			youIdx = i
			break
		}
	}
	if youIdx < 0 {
		return
	}

	primaryIdx := -1
	for i := range s.players {
		if i != youIdx && s.players[i].IsPrimary() {
			primaryIdx = i
			break
		}
	}

	if primaryIdx >= 0 {
		s.players[primaryIdx].AllTimeScore += s.players[youIdx].AllTimeScore
		s.players[primaryIdx].IsActive = s.players[primaryIdx].IsActive || s.players[youIdx].IsActive
		s.players = append(s.players[:youIdx], s.players[youIdx+1:]...)
		s.logger.Info("merged legacy player into primary",
			slog.String("primary", model.PrimaryUserName))
	} else {
		s.players[youIdx].Name = model.PrimaryUserName
		s.logger.Info("renamed legacy player to primary",
			slog.String("primary", model.PrimaryUserName))
	}
}

// ensurePrimaryExistsLocked appends a fresh primary user if none exists
func (s *Store) ensurePrimaryExistsLocked() {
	for i := range s.players {
		if s.players[i].IsPrimary() {
			return
		}
	}
	s.players = append(s.players, model.NewPlayer(model.PrimaryUserName))
	s.logger.Info("created missing primary user",
		slog.String("primary", model.PrimaryUserName))
}

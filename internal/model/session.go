package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the current phase of a multiplayer session
type SessionStatus string

const (
	SessionStatusLobby   SessionStatus = "lobby"   // Waiting for players to join
	SessionStatusPicking SessionStatus = "picking" // Players selecting categories
	SessionStatusJudging SessionStatus = "judging" // Judge awarding points
	SessionStatusPlaying SessionStatus = "playing" // Between rounds
	SessionStatusEnded   SessionStatus = "ended"   // Session over
)

// MPPlayer is one participant in a multiplayer session
type MPPlayer struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	IsHost           bool      `json:"isHost"`
	IsConnected      bool      `json:"isConnected"`
	SelectedCategory *string   `json:"selectedCategory,omitempty"`
	SessionScore     int       `json:"sessionScore"`
}

// Session is the replicated multiplayer state. The host holds the
// authoritative copy; clients hold replicas mutated only by host events.
// It lives only while multiplayer is active and is never persisted.
type Session struct {
	Code      string        `json:"code"`
	HostID    uuid.UUID     `json:"hostID"`
	JudgeID   uuid.UUID     `json:"judgeID"`
	Round     int           `json:"round"`
	StartedAt time.Time     `json:"startedAt"`
	Status    SessionStatus `json:"status"`
	Players   []MPPlayer    `json:"players"`
}

// GetPlayer returns the session player with the given ID, or nil
func (s *Session) GetPlayer(id uuid.UUID) *MPPlayer {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	out := *s
	out.Players = make([]MPPlayer, len(s.Players))
	copy(out.Players, s.Players)
	for i := range out.Players {
		if c := s.Players[i].SelectedCategory; c != nil {
			v := *c
			out.Players[i].SelectedCategory = &v
		}
	}
	return &out
}

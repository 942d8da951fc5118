package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies one of the session event variants
type EventType string

const (
	EventJoin         EventType = "join"         // lobby only
	EventLeave        EventType = "leave"        // any state
	EventSetCategory  EventType = "setCategory"  // picking
	EventStartPicking EventType = "startPicking" // lobby, playing
	EventStartJudging EventType = "startJudging" // picking
	EventAwardPoints  EventType = "awardPoints"  // judging
	EventEndRound     EventType = "endRound"     // judging
	EventEndGame      EventType = "endGame"      // any non-ended
	EventSyncFull     EventType = "syncFull"     // on connect only
)

// Event is a single message in the session event stream. The Type field
// discriminates which payload fields are meaningful; everything else is
// left zero and omitted on the wire.
type Event struct {
	Type EventType `json:"type"`

	// join
	Player *MPPlayer `json:"player,omitempty"`

	// leave, setCategory
	PlayerID *uuid.UUID `json:"playerID,omitempty"`

	// setCategory
	Category string `json:"category,omitempty"`

	// startPicking, startJudging, endRound
	Round int `json:"round,omitempty"`

	// startPicking (pick deadline), startJudging (judge deadline).
	// Absolute timestamps: replicas compute countdowns locally and no
	// state transition depends on expiry, so clock skew is cosmetic.
	Deadline *time.Time `json:"deadline,omitempty"`

	// awardPoints
	Awards map[uuid.UUID]int `json:"awards,omitempty"`

	// syncFull
	Session *Session `json:"session,omitempty"`
}

// JoinEvent announces a new player entering the lobby
func JoinEvent(p MPPlayer) Event {
	return Event{Type: EventJoin, Player: &p}
}

// LeaveEvent marks a player as disconnected
func LeaveEvent(playerID uuid.UUID) Event {
	return Event{Type: EventLeave, PlayerID: &playerID}
}

// SetCategoryEvent records a player's category pick
func SetCategoryEvent(playerID uuid.UUID, category string) Event {
	return Event{Type: EventSetCategory, PlayerID: &playerID, Category: category}
}

// StartPickingEvent opens a round for category selection
func StartPickingEvent(round int, pickDeadline time.Time) Event {
	return Event{Type: EventStartPicking, Round: round, Deadline: &pickDeadline}
}

// StartJudgingEvent moves the given round into judging
func StartJudgingEvent(round int, judgeDeadline time.Time) Event {
	return Event{Type: EventStartJudging, Round: round, Deadline: &judgeDeadline}
}

// AwardPointsEvent adds deltas to player session scores
func AwardPointsEvent(awards map[uuid.UUID]int) Event {
	return Event{Type: EventAwardPoints, Awards: awards}
}

// EndRoundEvent returns the session to the playing state
func EndRoundEvent(round int) Event {
	return Event{Type: EventEndRound, Round: round}
}

// EndGameEvent ends the session
func EndGameEvent() Event {
	return Event{Type: EventEndGame}
}

// SyncFullEvent replaces a replica with the full session state
func SyncFullEvent(s Session) Event {
	return Event{Type: EventSyncFull, Session: &s}
}

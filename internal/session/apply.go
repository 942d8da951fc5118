// Package session implements the local multiplayer protocol: a single
// event stream mutates a replicated session. One participant is the
// authoritative host; clients apply only events delivered from the
// host, so replicas converge.
package session

import "github.com/bulbousnub/wats-go/internal/model"

// Apply mutates a session with one event. It is a total function over
// every event variant and runs identically on host and clients; events
// arriving in an unexpected state are applied anyway and converge via a
// later syncFull. The returned session is the input for every variant
// except syncFull, which replaces the whole object.
func Apply(s *model.Session, e model.Event) *model.Session {
	switch e.Type {
	case model.EventJoin:
		if e.Player == nil {
			return s
		}
		if s.GetPlayer(e.Player.ID) == nil {
			s.Players = append(s.Players, *e.Player)
		}

	case model.EventLeave:
		if e.PlayerID == nil {
			return s
		}
		// Keep the row for UI purposes; only flag the disconnect
		if p := s.GetPlayer(*e.PlayerID); p != nil {
			p.IsConnected = false
		}

	case model.EventSetCategory:
		if e.PlayerID == nil {
			return s
		}
		if p := s.GetPlayer(*e.PlayerID); p != nil {
			category := e.Category
			p.SelectedCategory = &category
		}

	case model.EventStartPicking:
		s.Round = e.Round
		s.Status = model.SessionStatusPicking
		for i := range s.Players {
			s.Players[i].SelectedCategory = nil
		}

	case model.EventStartJudging:
		s.Round = e.Round
		s.Status = model.SessionStatusJudging

	case model.EventAwardPoints:
		for id, delta := range e.Awards {
			if p := s.GetPlayer(id); p != nil {
				p.SessionScore += delta
			}
		}

	case model.EventEndRound:
		s.Status = model.SessionStatusPlaying

	case model.EventEndGame:
		s.Status = model.SessionStatusEnded

	case model.EventSyncFull:
		if e.Session == nil {
			return s
		}
		return e.Session.Clone()
	}
	return s
}

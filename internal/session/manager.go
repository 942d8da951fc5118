package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/bulbousnub/wats-go/internal/dependencies/clock"
	"github.com/bulbousnub/wats-go/internal/model"
)

// Manager owns one side of a multiplayer session: the authoritative
// copy on the host, a replica on clients. All state mutation funnels
// through apply under a single mutex, so transport callbacks may arrive
// on any goroutine.
type Manager struct {
	mu        sync.Mutex
	logger    *slog.Logger
	clock     clock.Clock
	transport Transport

	isHost  bool
	session *model.Session

	observers []chan struct{}
}

// NewManager creates a manager with no active session
func NewManager(clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		logger: logger.With(slog.String("component", "session")),
		clock:  clk,
	}
}

var _ Delegate = (*Manager)(nil)

// Host starts an authoritative session with the given room code and the
// host's own player row, in the lobby state.
func (m *Manager) Host(code string, me model.MPPlayer, transport Transport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isHost = true
	m.transport = transport
	me.IsHost = true
	me.IsConnected = true
	m.session = &model.Session{
		Code:      NormalizeCode(code),
		HostID:    me.ID,
		JudgeID:   me.ID, // judge equals host in this version
		Round:     1,
		StartedAt: m.clock.Now(),
		Status:    model.SessionStatusLobby,
		Players:   []model.MPPlayer{me},
	}
	m.logger.Info("hosting session", slog.String("code", m.session.Code))
}

// Connect attaches a client to a host's transport. The replica stays
// nil until the host's syncFull arrives.
func (m *Manager) Connect(transport Transport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isHost = false
	m.transport = transport
}

// Stop drops the session and closes the transport
func (m *Manager) Stop() {
	m.mu.Lock()
	t := m.transport
	m.transport = nil
	m.session = nil
	m.isHost = false
	m.mu.Unlock()
	if t != nil {
		if err := t.Close(); err != nil {
			m.logger.Warn("transport close failed", slog.Any("error", err))
		}
	}
	m.notify()
}

// IsHost reports whether this side is the authoritative host
func (m *Manager) IsHost() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isHost
}

// Session returns a copy of the current replica, or nil when no session
// is active or a client has not yet received its syncFull.
func (m *Manager) Session() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	return m.session.Clone()
}

// Subscribe returns a channel signaled after every replica change
func (m *Manager) Subscribe() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{}, 1)
	m.observers = append(m.observers, ch)
	return ch
}

// Send encodes one event and transmits it to every connected peer. The
// host also applies the event locally in the same call, keeping its
// state consistent with the event log it broadcasts. Clients never
// apply their own sends; they wait for the host's rebroadcast.
func (m *Manager) Send(event model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	if m.transport != nil {
		if err := m.transport.Send(data); err != nil {
			// The user may retry the action; nothing is queued
			m.logger.Warn("send failed",
				slog.String("type", string(event.Type)),
				slog.Any("error", err))
		}
	}
	if m.isHost {
		m.applyLocked(event)
	}
}

// PeerConnected implements Delegate. The host pushes a full-state sync
// to every newly connected peer.
func (m *Manager) PeerConnected(peer PeerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Info("peer connected", slog.String("peer", string(peer)))
	if !m.isHost || m.session == nil {
		return
	}
	data, err := json.Marshal(model.SyncFullEvent(*m.session.Clone()))
	if err != nil {
		m.logger.Error("failed to encode syncFull", slog.Any("error", err))
		return
	}
	if err := m.transport.Send(data, peer); err != nil {
		m.logger.Warn("syncFull send failed",
			slog.String("peer", string(peer)),
			slog.Any("error", err))
	}
}

// PeerDisconnected implements Delegate. No leave event is synthesized;
// the departed player's row stays visible with isConnected left as-is
// until a leave arrives.
func (m *Manager) PeerDisconnected(peer PeerID) {
	m.logger.Info("peer disconnected", slog.String("peer", string(peer)))
}

// Receive implements Delegate. Clients apply host events directly. The
// host applies client-originated events and rebroadcasts them to every
// peer so all replicas see the same stream.
func (m *Manager) Receive(peer PeerID, payload []byte) {
	var event model.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		m.logger.Warn("dropping undecodable event",
			slog.String("peer", string(peer)),
			slog.Any("error", err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isHost {
		m.applyLocked(event)
		if err := m.transport.Send(payload); err != nil {
			m.logger.Warn("rebroadcast failed",
				slog.String("type", string(event.Type)),
				slog.Any("error", err))
		}
		return
	}
	m.applyLocked(event)
}

// applyLocked runs the shared application function and wakes observers.
// Callers hold m.mu.
func (m *Manager) applyLocked(event model.Event) {
	if m.session == nil && event.Type != model.EventSyncFull {
		return
	}
	if m.session == nil {
		m.session = &model.Session{}
	}
	m.session = Apply(m.session, event)
	m.notifyLocked()
}

func (m *Manager) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyLocked()
}

func (m *Manager) notifyLocked() {
	for _, ch := range m.observers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

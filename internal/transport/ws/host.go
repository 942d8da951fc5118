// Package ws carries the session protocol over websockets: the host
// serves an endpoint every client dials, giving each peer a reliable
// ordered message channel. TLS supplies the required encryption when
// a certificate is configured.
package ws

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/bulbousnub/wats-go/internal/middleware"
	"github.com/bulbousnub/wats-go/internal/session"
)

const (
	// writeWait is the deadline for a single frame write
	writeWait = 10 * time.Second
	// pongWait is how long a peer may go silent before it is dropped
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = 45 * time.Second
	// sendBuffer is the per-peer outbound queue
	sendBuffer = 64
)

// HostConfig configures the listening side of the transport
type HostConfig struct {
	// Addr is the listen address, e.g. ":8137". Port 0 picks a free port.
	Addr string
	// TLSCert and TLSKey enable wss; both or neither must be set
	TLSCert string
	TLSKey  string
}

// Host accepts peer connections and fans messages out to them
type Host struct {
	cfg      HostConfig
	logger   *slog.Logger
	delegate session.Delegate

	server   *http.Server
	listener net.Listener
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	peers  map[session.PeerID]*peerConn
	nextID int
	closed bool
}

type peerConn struct {
	id   session.PeerID
	conn *websocket.Conn
	send chan []byte
}

// NewHost creates a host transport; Start must be called before use
func NewHost(cfg HostConfig, delegate session.Delegate, logger *slog.Logger) *Host {
	return &Host{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "ws-host")),
		delegate: delegate,
		peers:    make(map[session.PeerID]*peerConn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Proximity group on a trusted local network
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start binds the listener and begins serving peers
func (h *Host) Start() error {
	listener, err := net.Listen("tcp", h.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.cfg.Addr, err)
	}
	h.listener = listener

	router := mux.NewRouter()
	router.Use(middleware.Recovery(h.logger), middleware.Logging(h.logger))
	router.HandleFunc("/session", h.handleSession).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	h.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var serveErr error
		if h.cfg.TLSCert != "" && h.cfg.TLSKey != "" {
			serveErr = h.server.ServeTLS(listener, h.cfg.TLSCert, h.cfg.TLSKey)
		} else {
			serveErr = h.server.Serve(listener)
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			h.logger.Error("transport server stopped", slog.Any("error", serveErr))
		}
	}()

	h.logger.Info("transport listening", slog.String("addr", h.Addr()))
	return nil
}

// Addr returns the bound listen address
func (h *Host) Addr() string {
	if h.listener == nil {
		return h.cfg.Addr
	}
	return h.listener.Addr().String()
}

// Port returns the bound TCP port, for discovery advertisement
func (h *Host) Port() int {
	if h.listener == nil {
		return 0
	}
	if addr, ok := h.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

var _ session.Transport = (*Host)(nil)

// Send queues one message for the named peers, or for every connected
// peer when none are named. Slow peers have messages dropped rather
// than stalling the rest of the group.
func (h *Host) Send(payload []byte, peers ...session.PeerID) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return errors.New("transport closed")
	}

	targets := make([]*peerConn, 0, len(h.peers))
	if len(peers) == 0 {
		for _, p := range h.peers {
			targets = append(targets, p)
		}
	} else {
		for _, id := range peers {
			if p, ok := h.peers[id]; ok {
				targets = append(targets, p)
			}
		}
	}

	for _, p := range targets {
		select {
		case p.send <- payload:
		default:
			h.logger.Warn("dropping message, peer send buffer full",
				slog.String("peer", string(p.id)))
		}
	}
	return nil
}

// Peers lists connected peers
func (h *Host) Peers() []session.PeerID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]session.PeerID, 0, len(h.peers))
	for id := range h.peers {
		out = append(out, id)
	}
	return out
}

// Close disconnects every peer and stops the listener
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for id, p := range h.peers {
		close(p.send)
		delete(h.peers, id)
	}
	h.mu.Unlock()

	if h.server != nil {
		return h.server.Close()
	}
	return nil
}

func (h *Host) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed",
			slog.String("remote", r.RemoteAddr),
			slog.Any("error", err))
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.nextID++
	p := &peerConn{
		id:   session.PeerID("peer-" + strconv.Itoa(h.nextID) + "@" + r.RemoteAddr),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.peers[p.id] = p
	h.mu.Unlock()

	go h.writePump(p)
	h.delegate.PeerConnected(p.id)
	h.readPump(p)
}

// readPump delivers inbound frames to the delegate until the peer drops
func (h *Host) readPump(p *peerConn) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.peers[p.id]; ok {
			delete(h.peers, p.id)
			close(p.send)
		}
		h.mu.Unlock()
		p.conn.Close()
		h.delegate.PeerDisconnected(p.id)
	}()

	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("peer read failed",
					slog.String("peer", string(p.id)),
					slog.Any("error", err))
			}
			return
		}
		h.delegate.Receive(p.id, payload)
	}
}

// writePump owns all writes to the connection
func (h *Host) writePump(p *peerConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

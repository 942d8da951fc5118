package ws

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bulbousnub/wats-go/internal/session"
)

// HostPeerID is the single peer a client transport talks to
const HostPeerID session.PeerID = "host"

// DialTimeout bounds the connection handshake, matching the discovery
// layer's invitation timeout
const DialTimeout = 15 * time.Second

// Client is the joining side of the transport: one connection, to the
// host, which relays to the rest of the group.
type Client struct {
	logger   *slog.Logger
	delegate session.Delegate
	conn     *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// Dial connects to a host's session endpoint, e.g.
// "ws://192.168.1.20:8137/session".
func Dial(url string, delegate session.Delegate, logger *slog.Logger) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: DialTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing host %s: %w", url, err)
	}

	c := &Client{
		logger:   logger.With(slog.String("component", "ws-client")),
		delegate: delegate,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}
	go c.writePump()
	go c.readPump()
	c.delegate.PeerConnected(HostPeerID)
	return c, nil
}

var _ session.Transport = (*Client)(nil)

// Send queues one message for the host. The peer filter is ignored;
// everything a client sends goes to the host, which decides whether to
// incorporate and rebroadcast it.
func (c *Client) Send(payload []byte, _ ...session.PeerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("transport closed")
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Peers returns the host connection
func (c *Client) Peers() []session.PeerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return []session.PeerID{HostPeerID}
}

// Close shuts the connection down
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) readPump() {
	defer func() {
		c.Close()
		c.delegate.PeerDisconnected(HostPeerID)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("host connection lost", slog.Any("error", err))
			}
			return
		}
		c.delegate.Receive(HostPeerID, payload)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

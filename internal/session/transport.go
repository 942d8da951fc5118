package session

// PeerID identifies one connected peer on the transport
type PeerID string

// Transport is the reliable ordered channel the protocol runs over.
// Implementations must deliver each peer's sends in send order and
// must carry their own encryption.
type Transport interface {
	// Send transmits one message to the given peers, or to every
	// currently-connected peer when none are named.
	Send(payload []byte, peers ...PeerID) error

	// Peers lists currently-connected peers
	Peers() []PeerID

	// Close tears the transport down
	Close() error
}

// Delegate receives transport callbacks. Implementations must tolerate
// calls from arbitrary goroutines.
type Delegate interface {
	PeerConnected(peer PeerID)
	PeerDisconnected(peer PeerID)
	Receive(peer PeerID, payload []byte)
}

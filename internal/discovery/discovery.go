// Package discovery advertises and finds hosted sessions on the local
// network over mDNS. The host publishes the wats-game service with its
// room code in TXT metadata; a joiner browses and filters by code.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/bulbousnub/wats-go/internal/model"
	"github.com/bulbousnub/wats-go/internal/session"
)

const (
	// ServiceName is the advertised service identity
	ServiceName = "wats-game"
	// ServiceType is ServiceName in DNS-SD form
	ServiceType = "_wats-game._tcp"
	// Domain is the mDNS domain
	Domain = "local."
	// CodeKey is the TXT metadata key carrying the room code
	CodeKey = "code"
	// BrowseTimeout bounds the search for a matching host
	BrowseTimeout = 15 * time.Second
)

// Advertiser publishes a hosted session until shut down
type Advertiser struct {
	server *zeroconf.Server
	logger *slog.Logger
}

// Advertise announces a session with the given room code on the given
// transport port.
func Advertise(instance, code string, port int, logger *slog.Logger) (*Advertiser, error) {
	txt := []string{CodeKey + "=" + session.NormalizeCode(code)}
	server, err := zeroconf.Register(instance, ServiceType, Domain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("registering mdns service: %w", err)
	}
	logger.Info("advertising session",
		slog.String("service", ServiceName),
		slog.String("code", session.NormalizeCode(code)),
		slog.Int("port", port))
	return &Advertiser{server: server, logger: logger}, nil
}

// Shutdown stops advertising
func (a *Advertiser) Shutdown() {
	a.server.Shutdown()
	a.logger.Info("stopped advertising")
}

// Endpoint is a discovered host to dial
type Endpoint struct {
	Host string
	Port int
}

// FindHost browses for a session advertising the given room code. The
// comparison is case-insensitive. Returns the first match, or
// model.ErrPeerNotFound when the timeout elapses.
func FindHost(ctx context.Context, code string, logger *slog.Logger) (*Endpoint, error) {
	want := session.NormalizeCode(code)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("creating mdns resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, BrowseTimeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, ServiceType, Domain, entries); err != nil {
		return nil, fmt.Errorf("browsing for %s: %w", ServiceType, err)
	}

	for entry := range entries {
		if entryCode(entry) != want {
			continue
		}
		host := pickAddr(entry)
		if host == "" {
			continue
		}
		logger.Info("found session host",
			slog.String("instance", entry.Instance),
			slog.String("host", host),
			slog.Int("port", entry.Port))
		return &Endpoint{Host: host, Port: entry.Port}, nil
	}
	return nil, model.ErrPeerNotFound
}

func entryCode(entry *zeroconf.ServiceEntry) string {
	for _, txt := range entry.Text {
		if k, v, ok := strings.Cut(txt, "="); ok && k == CodeKey {
			return strings.ToUpper(v)
		}
	}
	return ""
}

func pickAddr(entry *zeroconf.ServiceEntry) string {
	for _, ip := range entry.AddrIPv4 {
		return ip.String()
	}
	for _, ip := range entry.AddrIPv6 {
		return ip.String()
	}
	if entry.HostName != "" {
		return strings.TrimSuffix(entry.HostName, ".")
	}
	return ""
}

// JoinURL builds the websocket URL for a discovered endpoint
func (e *Endpoint) JoinURL(secure bool) string {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/session", scheme, net.JoinHostPort(e.Host, fmt.Sprint(e.Port)))
}

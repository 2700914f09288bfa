// Package mdns advertises and locates the speaker bridge on the local network.
package mdns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/oshokin/speaker-autogroup/internal/logger"
)

const (
	// ServiceType is the DNS-SD service type of the speaker bridge.
	ServiceType = "_speaker-bridge._tcp"
	// Domain is the mDNS browse and registration domain.
	Domain = "local."
)

// ErrBridgeNotFound is returned when no bridge answered before the timeout.
var ErrBridgeNotFound = errors.New("no speaker bridge found on the local network")

// Advertise registers the bridge on every multicast interface.
// Callers stop advertising with Shutdown on the returned server.
func Advertise(instance string, port int) (*zeroconf.Server, error) {
	server, err := zeroconf.Register(instance, ServiceType, Domain, port, []string{"proto=grpc"}, nil)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", ServiceType, err)
	}

	return server, nil
}

// Locate browses for the bridge and returns the "host:port" of the first answer.
func Locate(ctx context.Context, timeout time.Duration) (string, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", fmt.Errorf("initialise resolver: %w", err)
	}

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 4)
	if err = resolver.Browse(browseCtx, ServiceType, Domain, entries); err != nil {
		return "", fmt.Errorf("browse %s: %w", ServiceType, err)
	}

	for {
		select {
		case <-browseCtx.Done():
			return "", fmt.Errorf("%w within %s", ErrBridgeNotFound, timeout)
		case entry, ok := <-entries:
			if !ok {
				return "", ErrBridgeNotFound
			}

			address, found := addressOf(entry)
			if !found {
				continue
			}

			logger.InfoKV(ctx, "Located speaker bridge", "instance", entry.Instance, "address", address)

			return address, nil
		}
	}
}

// addressOf prefers the first IPv4 address of an entry and falls back to IPv6.
func addressOf(entry *zeroconf.ServiceEntry) (string, bool) {
	if entry == nil || entry.Port <= 0 {
		return "", false
	}

	var ip net.IP

	switch {
	case len(entry.AddrIPv4) > 0:
		ip = entry.AddrIPv4[0]
	case len(entry.AddrIPv6) > 0:
		ip = entry.AddrIPv6[0]
	default:
		return "", false
	}

	return net.JoinHostPort(ip.String(), strconv.Itoa(entry.Port)), true
}

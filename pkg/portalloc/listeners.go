package portalloc

import (
	"context"
	"sort"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// ListenerSource reports the ports that currently have an active TCP listener.
type ListenerSource interface {
	ActivePorts(ctx context.Context) (PortSet, error)
}

// ListenerFunc adapts a function to a ListenerSource.
type ListenerFunc func(ctx context.Context) (PortSet, error)

// ActivePorts calls f(ctx).
func (f ListenerFunc) ActivePorts(ctx context.Context) (PortSet, error) {
	return f(ctx)
}

// PortSet is a set of TCP ports. It is also a fixed ListenerSource.
type PortSet map[int]struct{}

// NewPortSet builds a PortSet from ports.
func NewPortSet(ports ...int) PortSet {
	s := make(PortSet, len(ports))
	for _, p := range ports {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether port is in the set.
func (s PortSet) Contains(port int) bool {
	_, ok := s[port]
	return ok
}

// Sorted returns the ports in ascending order.
func (s PortSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// ActivePorts returns the set itself.
func (s PortSet) ActivePorts(context.Context) (PortSet, error) {
	return s, nil
}

// listenStatus is the connection state gopsutil reports for listening sockets.
const listenStatus = "LISTEN"

// SystemListeners reads the host's TCP connection table (IPv4 and IPv6).
type SystemListeners struct{}

// ActivePorts returns the local ports of all sockets in LISTEN state.
func (SystemListeners) ActivePorts(ctx context.Context) (PortSet, error) {
	conns, err := psnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, err
	}
	return listeningPorts(conns), nil
}

func listeningPorts(conns []psnet.ConnectionStat) PortSet {
	set := make(PortSet)
	for _, c := range conns {
		if c.Status != listenStatus || c.Laddr.Port == 0 {
			continue
		}
		set[int(c.Laddr.Port)] = struct{}{}
	}
	return set
}

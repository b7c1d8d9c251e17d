// Package neighbor models a peering neighbor: its channel, relationship
// kind, and router-side address on that link.
package neighbor

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/QuantumCc/router/ipaddr"
	"github.com/QuantumCc/router/policy"
)

// ErrBadSpec is returned when a CLI neighbor spec can't be parsed.
var ErrBadSpec = errors.New("bad neighbor spec")

// Channel is the duplex, message-framed link to a neighbor. A
// net.UnixConn dialed in "unixgram" mode satisfies this at runtime; an
// in-memory pipe satisfies it in tests.
type Channel interface {
	net.Conn
}

// Neighbor is one configured peering relationship.
type Neighbor struct {
	Name       string // dotted-quad socket name, also the neighbor's address
	Addr       uint32
	RouterAddr uint32 // this router's address on the point-to-point link
	Relation   policy.Relation
	Channel    Channel
}

// New builds a Neighbor from its dotted-quad name and relation. The
// Channel must be attached separately once the transport connects.
func New(name string, rel policy.Relation) (Neighbor, error) {
	addr, err := ipaddr.ToUint32(name)
	if err != nil {
		return Neighbor{}, errors.Wrapf(err, "neighbor %q", name)
	}
	return Neighbor{
		Name:       name,
		Addr:       addr,
		RouterAddr: ipaddr.RouterAddress(addr),
		Relation:   rel,
	}, nil
}

// ParseSpec parses a CLI neighbor spec of the form "<ipv4>-<relation>"
// (relation one of cust/peer/prov) into a Neighbor.
func ParseSpec(spec string) (Neighbor, error) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return Neighbor{}, errors.Wrapf(ErrBadSpec, "%q: expected <ipv4>-<relation>", spec)
	}
	rel, ok := policy.Parse(parts[1])
	if !ok {
		return Neighbor{}, errors.Wrapf(ErrBadSpec, "%q: unknown relation %q", spec, parts[1])
	}
	return New(parts[0], rel)
}

// Dial binds this router's side of the point-to-point link (named by
// RouterAddr) and connects outbound to the neighbor's named endpoint,
// both rooted at dir, per spec.md §6 "Channel addressing". The bound
// local socket is removed first in case a previous run left it behind.
func (n *Neighbor) Dial(dir string) error {
	laddr := &net.UnixAddr{Name: filepath.Join(dir, ipaddr.String(n.RouterAddr)), Net: "unixgram"}
	raddr := &net.UnixAddr{Name: filepath.Join(dir, n.Name), Net: "unixgram"}

	if err := os.Remove(laddr.Name); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "clearing stale socket %s", laddr.Name)
	}

	conn, err := net.DialUnix("unixgram", laddr, raddr)
	if err != nil {
		return errors.Wrapf(err, "dialing neighbor %s", n.Name)
	}
	n.Channel = conn
	return nil
}

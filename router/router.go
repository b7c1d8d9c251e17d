// Package router ties the route table, policy engine and history log
// together into the update/revoke processor, the data forwarder, and
// the single-threaded dispatcher loop that drives them.
package router

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/QuantumCc/router/history"
	"github.com/QuantumCc/router/neighbor"
	"github.com/QuantumCc/router/policy"
	"github.com/QuantumCc/router/rib"
)

// ErrUnknownNeighbor is fatal: a frame arrived identified as coming
// from a channel this router never configured.
var ErrUnknownNeighbor = errors.New("unknown neighbor")

// ErrChannelClosed is fatal: a neighbor's channel closed or errored.
var ErrChannelClosed = errors.New("channel closed")

// Router owns the route table, neighbor set and announcement history
// for one AS. It is mutated only from the dispatcher loop, so none of
// its fields need locking.
type Router struct {
	ASN       uint32
	neighbors []neighbor.Neighbor
	byAddr    map[uint32]*neighbor.Neighbor
	Table     *rib.Table
	History   *history.History
	log       *logrus.Entry

	// counters tallies frames processed per type, for the heartbeat
	// log. Touched only from Dispatch/Run, so it needs no locking.
	counters map[string]uint64
}

// New constructs a Router for the given AS number and neighbor set.
func New(asn uint32, neighbors []neighbor.Neighbor, log *logrus.Logger) *Router {
	if log == nil {
		log = logrus.New()
	}
	r := &Router{
		ASN:       asn,
		neighbors: neighbors,
		byAddr:    make(map[uint32]*neighbor.Neighbor, len(neighbors)),
		Table:     rib.New(),
		History:   history.New(),
		log:       log.WithField("asn", asn),
		counters:  make(map[string]uint64),
	}
	for i := range r.neighbors {
		r.byAddr[r.neighbors[i].Addr] = &r.neighbors[i]
	}
	return r
}

// Neighbors returns the configured neighbor set.
func (r *Router) Neighbors() []neighbor.Neighbor {
	return r.neighbors
}

// neighborByAddr looks up a neighbor by its 32-bit address, the
// invariant spec.md §3 calls "every route entry's peer is a known
// neighbor".
func (r *Router) neighborByAddr(addr uint32) (*neighbor.Neighbor, bool) {
	n, ok := r.byAddr[addr]
	return n, ok
}

// egressSet returns the neighbors an announcement/data packet learned
// from `from` is allowed onward to, per the policy predicate `allowed`.
func (r *Router) egressSet(from *neighbor.Neighbor, allowed func(ingress, egress policy.Relation) bool) []*neighbor.Neighbor {
	var out []*neighbor.Neighbor
	for i := range r.neighbors {
		n := &r.neighbors[i]
		if n.Addr == from.Addr {
			continue
		}
		if allowed(from.Relation, n.Relation) {
			out = append(out, n)
		}
	}
	return out
}

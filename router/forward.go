package router

import (
	"encoding/json"

	"github.com/QuantumCc/router/ipaddr"
	"github.com/QuantumCc/router/neighbor"
	"github.com/QuantumCc/router/policy"
	"github.com/QuantumCc/router/rib"
	"github.com/QuantumCc/router/wire"
)

// HandleData implements spec.md §4.5: longest-prefix lookup, the
// selection cascade, and the policy check, forwarding the packet
// verbatim or replying "no route".
func (r *Router) HandleData(from *neighbor.Neighbor, env wire.Envelope) error {
	dst, err := ipaddr.ToUint32(env.Dst)
	if err != nil {
		r.log.WithError(err).Warn("dropping data with unparseable destination")
		return nil
	}

	candidates := r.Table.Lookup(dst)
	if len(candidates) == 0 {
		return r.sendNoRoute(from, env)
	}

	best := SelectBest(candidates)
	egress, ok := r.neighborByAddr(best.Peer)
	if !ok {
		return ErrUnknownNeighbor
	}

	if !policy.CanForwardData(from.Relation, egress.Relation) {
		return r.sendNoRoute(from, env)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_, err = egress.Channel.Write(raw)
	return err
}

// HandleDump implements spec.md §6 "Dump": replies with a "table"
// message listing the post-coalesce table, src/dst swapped.
func (r *Router) HandleDump(from *neighbor.Neighbor, env wire.Envelope) error {
	entries := r.Table.Entries()
	rows := make([]wire.TableEntry, len(entries))
	for i, e := range entries {
		rows[i] = wire.TableEntry{
			Network: ipaddr.String(e.Network),
			Netmask: ipaddr.String(e.Netmask),
			Peer:    ipaddr.String(e.Peer),
		}
	}
	msg, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return r.send(from, wire.Envelope{
		Src:  env.Dst,
		Dst:  env.Src,
		Type: wire.TypeTable,
		Msg:  msg,
	})
}

func (r *Router) sendNoRoute(from *neighbor.Neighbor, original wire.Envelope) error {
	return r.send(from, wire.Envelope{
		Src:  ipaddr.String(from.RouterAddr),
		Dst:  original.Src,
		Type: wire.TypeNoRoute,
		Msg:  json.RawMessage(`{}`),
	})
}

// SelectBest runs the five-stage, non-emptying tie-break cascade of
// spec.md §4.5 over a non-empty candidate set and returns the single
// winner. Each stage narrows the set by keeping an extremum, so it
// never empties it; the final stage is a total order over distinct
// neighbor addresses, so exactly one candidate survives.
func SelectBest(candidates []rib.Entry) rib.Entry {
	c := candidates

	c = keepMaxLocalPref(c)
	c = keepSelfOriginated(c)
	c = keepShortestASPath(c)
	c = keepBestOrigin(c)
	c = keepLowestPeer(c)

	return c[0]
}

func keepMaxLocalPref(c []rib.Entry) []rib.Entry {
	best := c[0].LocalPref
	for _, e := range c[1:] {
		if e.LocalPref > best {
			best = e.LocalPref
		}
	}
	var out []rib.Entry
	for _, e := range c {
		if e.LocalPref == best {
			out = append(out, e)
		}
	}
	return out
}

func keepSelfOriginated(c []rib.Entry) []rib.Entry {
	var out []rib.Entry
	for _, e := range c {
		if e.SelfOrigin {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return c
	}
	return out
}

func keepShortestASPath(c []rib.Entry) []rib.Entry {
	best := len(c[0].ASPath)
	for _, e := range c[1:] {
		if len(e.ASPath) < best {
			best = len(e.ASPath)
		}
	}
	var out []rib.Entry
	for _, e := range c {
		if len(e.ASPath) == best {
			out = append(out, e)
		}
	}
	return out
}

func keepBestOrigin(c []rib.Entry) []rib.Entry {
	for _, want := range []rib.Origin{rib.IGP, rib.EGP, rib.UNK} {
		var out []rib.Entry
		for _, e := range c {
			if e.Origin == want {
				out = append(out, e)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return c
}

func keepLowestPeer(c []rib.Entry) []rib.Entry {
	best := c[0]
	for _, e := range c[1:] {
		if e.Peer < best.Peer {
			best = e
		}
	}
	return []rib.Entry{best}
}

// Package history keeps the append-only log of inbound update/revoke
// announcements and replays it to rebuild the route table from
// scratch — the mechanism the forwarding table uses to disaggregate a
// coalesced prefix correctly on withdrawal (spec.md §4.4).
package history

import (
	"github.com/QuantumCc/router/ipaddr"
	"github.com/QuantumCc/router/rib"
	"github.com/QuantumCc/router/wire"
)

// Record is one historical announcement: the raw message body plus
// the neighbor it arrived from.
type Record struct {
	Type string
	From uint32 // 32-bit address of the arrival neighbor
	Msg  []byte // raw JSON "msg" field, as received
}

// History is the append-only announcement log.
type History struct {
	records []Record
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Append records one inbound update or revoke message.
func (h *History) Append(r Record) {
	h.records = append(h.records, r)
}

// Records returns the history in arrival order.
func (h *History) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Replay rebuilds a route table from scratch by reprocessing every
// historical update (inserting its entry, local ASN appended exactly
// once as the original processing would have) and every historical
// revoke (removing the withdrawn (network, netmask, peer) triples).
// The caller still owes the result a Coalesce pass.
func Replay(records []Record, localASN uint32) (*rib.Table, error) {
	t := rib.New()
	for _, r := range records {
		switch r.Type {
		case wire.TypeUpdate:
			body, err := wire.ParseUpdateBody(r.Msg)
			if err != nil {
				continue // malformed frames never made it into a live table either
			}
			entry, err := toEntry(body, r.From, localASN)
			if err != nil {
				continue
			}
			t.Insert(entry)
		case wire.TypeRevoke:
			withdrawals, err := wire.ParseRevokeBody(r.Msg)
			if err != nil {
				continue
			}
			for _, w := range withdrawals {
				network, err1 := ipaddr.ToUint32(w.Network)
				netmask, err2 := ipaddr.ToUint32(w.Netmask)
				if err1 != nil || err2 != nil {
					continue
				}
				t.RemoveMatching(network, netmask, r.From)
			}
		}
	}
	return t, nil
}

// toEntry converts a wire update body into the rib.Entry it produces
// when first processed, local ASN appended once.
func toEntry(body wire.UpdateBody, peer, localASN uint32) (rib.Entry, error) {
	network, err := ipaddr.ToUint32(body.Network)
	if err != nil {
		return rib.Entry{}, err
	}
	netmask, err := ipaddr.ToUint32(body.Netmask)
	if err != nil {
		return rib.Entry{}, err
	}
	if err := ipaddr.Validate(netmask); err != nil {
		return rib.Entry{}, err
	}
	asPath := make([]uint32, len(body.ASPath)+1)
	copy(asPath, body.ASPath)
	asPath[len(body.ASPath)] = localASN

	return rib.Entry{
		Network:    network,
		Netmask:    netmask,
		Peer:       peer,
		LocalPref:  body.LocalPref,
		SelfOrigin: body.SelfOrigin,
		ASPath:     asPath,
		Origin:     rib.Origin(body.Origin),
	}, nil
}

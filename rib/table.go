package rib

import "github.com/QuantumCc/router/ipaddr"

// Table is an ordered collection of route entries supporting
// longest-prefix lookup and exhaustive adjacent-prefix coalescing.
type Table struct {
	entries []Entry
}

// New returns an empty route table.
func New() *Table {
	return &Table{}
}

// Insert appends entry without deduplication. Callers feed the table
// from history; duplicate resistance is Coalesce's concern.
func (t *Table) Insert(e Entry) {
	t.entries = append(t.entries, e)
}

// RemoveMatching deletes every entry with the exact
// (network, netmask, peer) triple.
func (t *Table) RemoveMatching(network, netmask, peer uint32) {
	next := t.entries[:0:0]
	for _, e := range t.entries {
		if e.Network == network && e.Netmask == netmask && e.Peer == peer {
			continue
		}
		next = append(next, e)
	}
	t.entries = next
}

// Entries returns a copy of the current entries, in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns every entry tied for the longest prefix matching
// addr. It is empty if nothing matches.
func (t *Table) Lookup(addr uint32) []Entry {
	best := -1
	var candidates []Entry
	for _, e := range t.entries {
		if !ipaddr.Match(addr, e.Network, e.Netmask) {
			continue
		}
		n := ipaddr.PrefixLen(e.Netmask)
		switch {
		case n > best:
			best = n
			candidates = []Entry{e}
		case n == best:
			candidates = append(candidates, e)
		}
	}
	return candidates
}

// Coalesce exhaustively merges adjacent entry pairs (see isAdjacent)
// until no adjacent pair remains. It rebuilds the table a pass at a
// time rather than mutating while iterating, since merges change the
// slice's length and identity.
func (t *Table) Coalesce() {
	for {
		i, j, ok := firstAdjacentPair(t.entries)
		if !ok {
			return
		}
		merged := merge(t.entries[i], t.entries[j])

		next := make([]Entry, 0, len(t.entries)-1)
		for k, e := range t.entries {
			if k == i || k == j {
				continue
			}
			next = append(next, e)
		}
		t.entries = append(next, merged)
	}
}

func firstAdjacentPair(entries []Entry) (i, j int, ok bool) {
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if isAdjacent(entries[i], entries[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// isAdjacent reports whether a and b differ only in the final bit of
// an otherwise-identical mask: same attributes, same mask, and their
// networks agree on every bit but the lowest one the mask covers.
func isAdjacent(a, b Entry) bool {
	if a.Network == b.Network && a.Netmask == b.Netmask {
		return false // identical prefix, not a merge candidate
	}
	if a.Netmask != b.Netmask {
		return false
	}
	if !a.equalAttributes(b) {
		return false
	}
	n := ipaddr.PrefixLen(a.Netmask)
	if n == 0 {
		return false // a /0 has no "final bit" to differ on
	}
	short := ipaddr.Shorten(a.Netmask)
	return (a.Network & short) == (b.Network & short)
}

// merge combines an adjacent pair into the single coalesced entry:
// the lower network address, shortened mask, shared attributes.
func merge(a, b Entry) Entry {
	short := ipaddr.Shorten(a.Netmask)
	out := a
	out.Network = a.Network & short
	out.Netmask = short
	return out
}

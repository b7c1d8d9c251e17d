// Package policy implements the customer/peer/provider commercial
// relationship rules that govern which announcements and data packets
// may cross which neighbor links.
package policy

// Relation is a neighbor's commercial relationship to this router.
type Relation int

const (
	// Customer relations forward to and from everyone.
	Customer Relation = iota
	// Peer relations only forward to/from customers.
	Peer
	// Provider relations only forward to/from customers.
	Provider
)

// String implements fmt.Stringer.
func (r Relation) String() string {
	switch r {
	case Customer:
		return "cust"
	case Peer:
		return "peer"
	case Provider:
		return "prov"
	default:
		return "unknown"
	}
}

// Parse converts the CLI neighbor-spec suffix ("cust"/"peer"/"prov")
// into a Relation. ok is false for anything else.
func Parse(s string) (r Relation, ok bool) {
	switch s {
	case "cust":
		return Customer, true
	case "peer":
		return Peer, true
	case "prov":
		return Provider, true
	default:
		return 0, false
	}
}

// CanForwardData reports whether a data packet arriving from a
// neighbor in relation `ingress` may be sent to a neighbor in relation
// `egress`: permitted iff either side is a customer.
func CanForwardData(ingress, egress Relation) bool {
	return ingress == Customer || egress == Customer
}

// CanPropagateAnnouncement reports whether an update/revoke learned
// from a neighbor in relation `ingress` may be re-advertised to a
// neighbor in relation `egress`. This is the same predicate as
// CanForwardData by construction (spec.md §8 "Policy symmetry") — kept
// as a distinct name since the two decisions answer different
// questions even though the rule underneath is identical.
func CanPropagateAnnouncement(ingress, egress Relation) bool {
	return CanForwardData(ingress, egress)
}

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanForwardData(t *testing.T) {
	cases := []struct {
		ingress, egress Relation
		want            bool
	}{
		{Customer, Customer, true},
		{Customer, Peer, true},
		{Customer, Provider, true},
		{Peer, Customer, true},
		{Peer, Peer, false},
		{Peer, Provider, false},
		{Provider, Customer, true},
		{Provider, Peer, false},
		{Provider, Provider, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, CanForwardData(c.ingress, c.egress),
			"ingress=%s egress=%s", c.ingress, c.egress)
	}
}

func TestPropagationMatchesForwarding(t *testing.T) {
	rels := []Relation{Customer, Peer, Provider}
	for _, i := range rels {
		for _, e := range rels {
			assert.Equal(t, CanForwardData(i, e), CanPropagateAnnouncement(i, e))
		}
	}
}

func TestParse(t *testing.T) {
	r, ok := Parse("cust")
	assert.True(t, ok)
	assert.Equal(t, Customer, r)

	_, ok = Parse("bogus")
	assert.False(t, ok)
}

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuantumCc/router/ipaddr"
	"github.com/QuantumCc/router/wire"
)

func TestReplayEquivalentToLiveProcessing(t *testing.T) {
	h := New()
	h.Append(Record{Type: wire.TypeUpdate, From: addr(t, "1.1.1.2"),
		Msg: []byte(`{"network":"10.0.0.0","netmask":"255.0.0.0","localpref":100,"selfOrigin":false,"ASPath":[2],"origin":"EGP"}`)})
	h.Append(Record{Type: wire.TypeUpdate, From: addr(t, "1.1.1.3"),
		Msg: []byte(`{"network":"10.1.0.0","netmask":"255.255.0.0","localpref":100,"selfOrigin":false,"ASPath":[3],"origin":"EGP"}`)})

	rebuilt, err := Replay(h.Records(), 1)
	require.NoError(t, err)
	rebuilt.Coalesce()

	assert.Len(t, rebuilt.Entries(), 2)
}

func TestReplaySkipsWithdrawnPrefix(t *testing.T) {
	h := New()
	h.Append(Record{Type: wire.TypeUpdate, From: addr(t, "1.1.1.2"),
		Msg: []byte(`{"network":"192.0.0.0","netmask":"255.255.255.0","localpref":100,"selfOrigin":false,"ASPath":[2],"origin":"EGP"}`)})
	h.Append(Record{Type: wire.TypeUpdate, From: addr(t, "1.1.1.2"),
		Msg: []byte(`{"network":"192.0.1.0","netmask":"255.255.255.0","localpref":100,"selfOrigin":false,"ASPath":[2],"origin":"EGP"}`)})
	h.Append(Record{Type: wire.TypeRevoke, From: addr(t, "1.1.1.2"),
		Msg: []byte(`[{"network":"192.0.1.0","netmask":"255.255.255.0"}]`)})

	rebuilt, err := Replay(h.Records(), 1)
	require.NoError(t, err)
	rebuilt.Coalesce()

	entries := rebuilt.Entries()
	require.Len(t, entries, 1)
	n, _ := ipaddr.ToUint32("192.0.0.0")
	assert.Equal(t, n, entries[0].Network)
}

func TestReplaySkipsMalformedRecords(t *testing.T) {
	h := New()
	h.Append(Record{Type: wire.TypeUpdate, From: addr(t, "1.1.1.2"), Msg: []byte(`not json`)})
	h.Append(Record{Type: wire.TypeUpdate, From: addr(t, "1.1.1.2"),
		Msg: []byte(`{"network":"10.0.0.0","netmask":"255.0.0.0","localpref":100,"selfOrigin":false,"ASPath":[2],"origin":"EGP"}`)})

	rebuilt, err := Replay(h.Records(), 1)
	require.NoError(t, err)
	assert.Len(t, rebuilt.Entries(), 1)
}

func addr(t *testing.T, s string) uint32 {
	t.Helper()
	v, err := ipaddr.ToUint32(s)
	require.NoError(t, err)
	return v
}

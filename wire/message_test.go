package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	raw := []byte(`{"src":"192.168.0.2","dst":"192.168.0.1","type":"update","msg":{}}`)
	e, err := ParseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.2", e.Src)
	assert.Equal(t, TypeUpdate, e.Type)
}

func TestParseEnvelopeMissingField(t *testing.T) {
	raw := []byte(`{"dst":"192.168.0.1","type":"update","msg":{}}`)
	_, err := ParseEnvelope(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseEnvelopeBadJSON(t *testing.T) {
	_, err := ParseEnvelope([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseUpdateBody(t *testing.T) {
	raw := []byte(`{"network":"10.0.0.0","netmask":"255.255.0.0","localpref":100,"selfOrigin":true,"ASPath":[2],"origin":"EGP"}`)
	b, err := ParseUpdateBody(raw)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0", b.Network)
	assert.Equal(t, []uint32{2}, b.ASPath)
}

func TestParseUpdateBodyBadOrigin(t *testing.T) {
	raw := []byte(`{"network":"10.0.0.0","netmask":"255.255.0.0","origin":"BOGUS"}`)
	_, err := ParseUpdateBody(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseRevokeBody(t *testing.T) {
	raw := []byte(`[{"network":"192.0.1.0","netmask":"255.255.255.0"}]`)
	w, err := ParseRevokeBody(raw)
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.Equal(t, "192.0.1.0", w[0].Network)
}

package ipaddr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUint32(t *testing.T) {
	v, err := ToUint32("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, uint32(10)<<24|1, v)

	_, err = ToUint32("10.0.0")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ToUint32("10.0.0.256")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStringRoundTrip(t *testing.T) {
	v, err := ToUint32("192.168.1.2")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.2", String(v))
}

func TestPrefixLen(t *testing.T) {
	assert.Equal(t, 0, PrefixLen(0))
	assert.Equal(t, 32, PrefixLen(0xFFFFFFFF))
	assert.Equal(t, 8, PrefixLen(0xFF000000))
	assert.Equal(t, 16, PrefixLen(0xFFFF0000))
	assert.Equal(t, 23, PrefixLen(0xFFFFFE00))
}

func TestValidateRejectsNonContiguous(t *testing.T) {
	require.NoError(t, Validate(0xFFFF0000))
	require.NoError(t, Validate(0))
	require.NoError(t, Validate(0xFFFFFFFF))

	err := Validate(0xFF00FF00)
	assert.ErrorIs(t, err, ErrInvalidMask)
}

func TestMatch(t *testing.T) {
	net, _ := ToUint32("10.1.0.0")
	mask, _ := ToUint32("255.255.0.0")

	a1, _ := ToUint32("10.1.2.3")
	a2, _ := ToUint32("10.2.0.1")

	assert.True(t, Match(a1, net, mask))
	assert.False(t, Match(a2, net, mask))
}

func TestMatchZeroMaskMatchesEverything(t *testing.T) {
	net, _ := ToUint32("10.1.0.0")
	a, _ := ToUint32("200.200.200.200")
	assert.True(t, Match(a, net, 0))
}

func TestMatchSlash32MatchesOnlyNetwork(t *testing.T) {
	net, _ := ToUint32("10.1.2.3")
	other, _ := ToUint32("10.1.2.4")
	assert.True(t, Match(net, net, 0xFFFFFFFF))
	assert.False(t, Match(other, net, 0xFFFFFFFF))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, uint32(0xFFFFFE00), Shorten(0xFFFFFF00))
	assert.Equal(t, uint32(0), Shorten(0))
}

func TestRouterAddress(t *testing.T) {
	n, _ := ToUint32("192.168.0.2")
	want, _ := ToUint32("192.168.0.1")
	assert.Equal(t, want, RouterAddress(n))
}

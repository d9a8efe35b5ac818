package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddressRef(t *testing.T) {
	ref := NewAddressRef("token", "  0x20f58ac708d2ebba5f4b6f1687073f631714f9f3 \n")
	addr, err := ref.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "0x20F58aC708D2ebBA5f4B6f1687073f631714f9F3", addr.Hex())
	assert.Equal(t, "0x20f58ac708d2ebba5f4b6f1687073f631714f9f3", ref.String())

	bad := []string{
		"",
		"20F58aC708D2ebBA5f4B6f1687073f631714f9F3",
		"0x20F58aC708D2ebBA5f4B6f1687073f631714f9F",
		"0x20F58aC708D2ebBA5f4B6f1687073f631714f9F33",
		"0x20F58aC708D2ebBA5f4B6f1687073f631714f9Fz",
	}
	for _, raw := range bad {
		ref := NewAddressRef("pair", raw)
		_, err := ref.Resolve()
		require.Error(t, err, raw)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "invalid pair address")
	}
}

func TestResolveAllStopsAtFirstError(t *testing.T) {
	_, err := ResolveAll(
		NewAddressRef("treasury", "0x5aBB817aaE8C17fBc97D2E2b4f08B35457aA1405"),
		NewAddressRef("deployer", "nope"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployer")

	addrs, err := ResolveAll(NewAddressRef("treasury", "0x5aBB817aaE8C17fBc97D2E2b4f08B35457aA1405"))
	require.NoError(t, err)
	assert.Len(t, addrs, 1)
}

func TestParseOutputFormat(t *testing.T) {
	assert.Equal(t, FormatWei, ParseOutputFormat(" WEI ", FormatWei, FormatHuman))
	assert.Equal(t, FormatHuman, ParseOutputFormat("human", FormatWei, FormatHuman))
	assert.Equal(t, FormatDefault, ParseOutputFormat("raw", FormatWei, FormatHuman))
	assert.Equal(t, FormatDefault, ParseOutputFormat("", FormatWei, FormatHuman))
	assert.Equal(t, FormatDefault, ParseOutputFormat("xml", FormatWei, FormatHuman))
}

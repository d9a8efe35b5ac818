package entity

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToken = common.HexToAddress("0x20F58aC708D2ebBA5f4B6f1687073f631714f9F3")
	testWETH  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testOther = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
)

func TestMatchReserves(t *testing.T) {
	r0, r1 := big.NewInt(111), big.NewInt(222)

	t.Run("token is token0", func(t *testing.T) {
		tok, partner, err := MatchReserves(PairState{Token0: testToken, Token1: testWETH, Reserve0: r0, Reserve1: r1}, testToken, testWETH)
		require.NoError(t, err)
		assert.Equal(t, r0, tok)
		assert.Equal(t, r1, partner)
	})

	t.Run("token is token1", func(t *testing.T) {
		tok, partner, err := MatchReserves(PairState{Token0: testWETH, Token1: testToken, Reserve0: r0, Reserve1: r1}, testToken, testWETH)
		require.NoError(t, err)
		assert.Equal(t, r1, tok)
		assert.Equal(t, r0, partner)
	})

	t.Run("hex case does not matter", func(t *testing.T) {
		lower := common.HexToAddress(strings.ToLower(testToken.Hex()))
		_, _, err := MatchReserves(PairState{Token0: lower, Token1: testWETH, Reserve0: r0, Reserve1: r1}, testToken, testWETH)
		require.NoError(t, err)
	})

	rejected := map[string]PairState{
		"neither address": {Token0: testOther, Token1: common.Address{}},
		"partner missing": {Token0: testToken, Token1: testOther},
		"token missing":   {Token0: testOther, Token1: testWETH},
		"token on both":   {Token0: testToken, Token1: testToken},
		"partner on both": {Token0: testWETH, Token1: testWETH},
	}
	for name, state := range rejected {
		t.Run(name, func(t *testing.T) {
			state.Reserve0, state.Reserve1 = r0, r1
			_, _, err := MatchReserves(state, testToken, testWETH)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnexpectedPairOrdering))
		})
	}
}

package entity

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PairState is the raw state read from a Uniswap V2 style pair contract.
type PairState struct {
	Token0   common.Address
	Token1   common.Address
	Reserve0 *big.Int
	Reserve1 *big.Int
	LPTotal  *big.Int
	LPHolder *big.Int
}

// PoolSnapshot is the pair state with reserves mapped onto the tracked token and its partner asset.
type PoolSnapshot struct {
	Token          common.Address
	Partner        common.Address
	Pair           common.Address
	Treasury       common.Address
	ReserveToken   *big.Int
	ReservePartner *big.Int
	LPTreasury     *big.Int
	LPTotal        *big.Int
	Endpoint       string
	ComputedAt     time.Time
}

// MatchReserves maps the pair's reserves onto (tracked, partner). Exactly one of the two orderings
// must match; a pair holding anything else is rejected. Addresses compare by value, so hex letter
// case is irrelevant.
func MatchReserves(state PairState, tracked, partner common.Address) (reserveTracked, reservePartner *big.Int, err error) {
	switch {
	case state.Token0 == tracked && state.Token1 == partner:
		return state.Reserve0, state.Reserve1, nil
	case state.Token1 == tracked && state.Token0 == partner:
		return state.Reserve1, state.Reserve0, nil
	default:
		return nil, nil, fmt.Errorf("%w: token0=%s token1=%s, want {%s, %s}",
			ErrUnexpectedPairOrdering, state.Token0.Hex(), state.Token1.Hex(), tracked.Hex(), partner.Hex())
	}
}

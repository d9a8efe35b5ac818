package entity

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressRef is a configured contract or account address together with the result of validating it.
// A malformed address is kept rather than dropped so every request depending on it fails closed.
type AddressRef struct {
	Role string
	Raw  string
	addr common.Address
	err  error
}

// NewAddressRef trims and validates raw. The address must be "0x" followed by exactly 40 hex digits;
// the EIP-55 checksum is not enforced.
func NewAddressRef(role, raw string) AddressRef {
	ref := AddressRef{Role: role, Raw: strings.TrimSpace(raw)}
	if !IsHexAddress(ref.Raw) {
		ref.err = &ConfigError{Role: role, Value: ref.Raw, Reason: "expected 0x followed by 40 hex digits"}
		return ref
	}
	ref.addr = common.HexToAddress(ref.Raw)
	return ref
}

// IsHexAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsHexAddress(s string) bool {
	if len(s) != 2+2*common.AddressLength {
		return false
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	return common.IsHexAddress(s)
}

// Resolve returns the parsed address or the configuration error recorded for it.
func (r AddressRef) Resolve() (common.Address, error) {
	if r.err != nil {
		return common.Address{}, r.err
	}
	return r.addr, nil
}

// Err returns the validation error, if any.
func (r AddressRef) Err() error {
	return r.err
}

// String returns the address as configured.
func (r AddressRef) String() string {
	return r.Raw
}

// ResolveAll resolves every ref in order, stopping at the first configuration error.
func ResolveAll(refs ...AddressRef) ([]common.Address, error) {
	out := make([]common.Address, 0, len(refs))
	for _, r := range refs {
		a, err := r.Resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

package types

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// HexBytes marshals as a 0x-prefixed lower-case hex string, the wire
// format spec.md §6 mandates for byte fields at the external boundary.
type HexBytes []byte

// MarshalText implements encoding.TextMarshaler.
func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte("0x" + hex.EncodeToString(b)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *HexBytes) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("types: invalid hex bytes %q: %w", text, err)
	}
	*b = decoded
	return nil
}

// DecString renders a U256 value as a decimal string, the wire format
// spec.md §6 mandates for U256 at the external boundary ("U256 is a
// decimal string").
func DecString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// ParseDecString parses a decimal-string U256 value as produced by
// DecString.
func ParseDecString(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("types: invalid U256 decimal %q: %w", s, err)
	}
	return v, nil
}

package types

import (
	"fmt"
	"math/big"
)

// BigInt big number represented by decimal string
type BigInt string

// NewBigInt formats v, nil gives "0".
func NewBigInt(v *big.Int) BigInt {
	if v == nil {
		return "0"
	}
	return BigInt(v.String())
}

// UnmarshalJSON accepts a quoted or bare number, decimal or 0x-prefixed hex.
func (b *BigInt) UnmarshalJSON(input []byte) error {
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	}
	return b.UnmarshalText(input)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *BigInt) UnmarshalText(input []byte) error {
	t, ok := new(big.Int).SetString(string(input), 0)
	if !ok {
		return fmt.Errorf("invalid number %q", input)
	}
	*b = BigInt(t.String())
	return nil
}

// Int parses b. The empty string is not a number.
func (b BigInt) Int() (*big.Int, error) {
	t, ok := new(big.Int).SetString(string(b), 10)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", string(b))
	}
	return t, nil
}

package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const maxPageSize = 100

// ParsePage validates optional page parameters bound from a query. Missing
// values default to page 1 of 10.
func ParsePage(page, size *int) (int, int, error) {
	p, s := 1, 10
	if page != nil {
		if *page < 1 {
			return 0, 0, fmt.Errorf("page must be >= 1")
		}
		p = *page
	}
	if size != nil {
		if *size < 1 || *size > maxPageSize {
			return 0, 0, fmt.Errorf("page_size must be between 1 and %d", maxPageSize)
		}
		s = *size
	}
	return p, s, nil
}

// ParseAddress converts a 0x-prefixed hexadecimal string to an address
func ParseAddress(hex string) (common.Address, error) {
	if len(hex) != 42 {
		return common.Address{}, fmt.Errorf("address is not 42 characters")
	}
	if !common.IsHexAddress(hex) {
		return common.Address{}, fmt.Errorf("address is not hex: %s", hex)
	}
	return common.HexToAddress(hex), nil
}

// ParseAmount parses a non-negative decimal wei amount.
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a decimal integer", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", s)
	}
	return v, nil
}

// WeiToEther formats a wei amount in ether without trailing zeros.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

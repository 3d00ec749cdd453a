package ledger

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// pointsFor converts a sale amount into loyalty points, floor-rounded and
// capped at MaxUint64.
func (l *Ledger) pointsFor(amount *big.Int) uint64 {
	p := new(big.Int).Quo(amount, l.unit)
	if !p.IsUint64() {
		return math.MaxUint64
	}
	return p.Uint64()
}

func (l *Ledger) credit(addr common.Address, points uint64) {
	cur := l.points[addr]
	if points > math.MaxUint64-cur {
		l.points[addr] = math.MaxUint64
		return
	}
	l.points[addr] = cur + points
}

// Points returns the loyalty balance of addr, zero if it never earned any.
func (l *Ledger) Points(addr common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points[addr]
}

// UnitValue is the sale amount that earns one point.
func (l *Ledger) UnitValue() *big.Int {
	return new(big.Int).Set(l.unit)
}

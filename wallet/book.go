// Package wallet holds native-currency custody for market participants.
package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be > 0")
	ErrRefused           = errors.New("recipient refuses payments")
)

// Deposit is native coin a participant sent to the operator on chain.
type Deposit struct {
	Tx     common.Hash
	Block  uint64
	From   common.Address
	Amount *big.Int
}

// Book is a custodial balance book. Attached value for purchases and bids is
// debited from it, and ledger payouts are credited to it.
//
// Changes are kept in memory until the store commits them together with the
// journal events they belong to, see Unsaved and MarkSaved.
type Book struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
	unsaved  map[common.Address]bool
	refused  map[common.Address]bool
}

func NewBook() *Book {
	return &Book{
		balances: make(map[common.Address]*big.Int),
		unsaved:  make(map[common.Address]bool),
		refused:  make(map[common.Address]bool),
	}
}

// Load replaces the in-memory balances, typically with the persisted ones at
// startup.
func (b *Book) Load(balances map[common.Address]*big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances = make(map[common.Address]*big.Int, len(balances))
	b.unsaved = make(map[common.Address]bool)
	for addr, bal := range balances {
		b.balances[addr] = new(big.Int).Set(bal)
	}
}

func (b *Book) Balance(addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bal, ok := b.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (b *Book) Deposit(_ context.Context, addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set(addr, new(big.Int).Add(b.get(addr), amount))
	return nil
}

// Debit removes amount from addr's balance.
func (b *Book) Debit(_ context.Context, addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cur := b.get(addr)
	if cur.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s, needs %s", addr.Hex(), cur, amount)
	}
	b.set(addr, new(big.Int).Sub(cur, amount))
	return nil
}

// Pay credits a ledger payout to the recipient's balance.
func (b *Book) Pay(_ context.Context, to common.Address, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refused[to] {
		return errors.Wrap(ErrRefused, to.Hex())
	}
	b.set(to, new(big.Int).Add(b.get(to), amount))
	return nil
}

// Refuse makes Pay to addr fail, the way a contract without a payable
// fallback rejects value.
func (b *Book) Refuse(addr common.Address, refuse bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refused[addr] = refuse
}

// Total is the sum of all balances.
func (b *Book) Total() *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := new(big.Int)
	for _, bal := range b.balances {
		total.Add(total, bal)
	}
	return total
}

func (b *Book) get(addr common.Address) *big.Int {
	if bal, ok := b.balances[addr]; ok {
		return bal
	}
	return new(big.Int)
}

func (b *Book) set(addr common.Address, bal *big.Int) {
	b.balances[addr] = bal
	b.unsaved[addr] = true
}

// Unsaved returns the balances changed since they were last committed.
func (b *Book) Unsaved() map[common.Address]*big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[common.Address]*big.Int, len(b.unsaved))
	for addr := range b.unsaved {
		out[addr] = new(big.Int).Set(b.get(addr))
	}
	return out
}

// MarkSaved records that saved was committed. Balances changed again since
// the snapshot stay unsaved.
func (b *Book) MarkSaved(saved map[common.Address]*big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for addr, bal := range saved {
		if b.get(addr).Cmp(bal) == 0 {
			delete(b.unsaved, addr)
		}
	}
}

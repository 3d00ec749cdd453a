package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/log"
)

// held per auction: sum of accepted bids minus refunds minus the settlement
// payout. Zero once the auction is settled or voided.

func (l *Ledger) hold(auctionID uint64, amount *big.Int) {
	h, ok := l.held[auctionID]
	if !ok {
		h = new(big.Int)
		l.held[auctionID] = h
	}
	h.Add(h, amount)
}

func (l *Ledger) release(auctionID uint64, amount *big.Int) {
	h, ok := l.held[auctionID]
	if !ok {
		return
	}
	h.Sub(h, amount)
	if h.Sign() <= 0 {
		delete(l.held, auctionID)
	}
}

func (l *Ledger) accrue(to common.Address, amount *big.Int) {
	c, ok := l.credits[to]
	if !ok {
		c = new(big.Int)
		l.credits[to] = c
	}
	c.Add(c, amount)
}

func (l *Ledger) debitCredit(from common.Address, amount *big.Int) {
	c, ok := l.credits[from]
	if !ok {
		return
	}
	c.Sub(c, amount)
	if c.Sign() <= 0 {
		delete(l.credits, from)
	}
}

// payout sends amount to the recipient. A failed push turns into a claimable
// credit; it never fails the operation that triggered it.
func (l *Ledger) payout(ctx context.Context, to common.Address, amount *big.Int, recordID uint64, now time.Time) {
	if amount.Sign() == 0 {
		return
	}
	if l.payer != nil {
		err := l.payer.Pay(ctx, to, amount)
		if err == nil {
			return
		}
		log.WithFields(log.Fields{"to": to.Hex(), "amount": amount.String(), "record": recordID}).
			Warnf("payout failed, recording claimable credit: %v", err)
	}
	l.emit(Event{
		Kind:     EventCreditAccrued,
		At:       now,
		RecordID: recordID,
		To:       to,
		Amount:   new(big.Int).Set(amount),
	})
}

// Withdraw pays out the caller's claimable credit. If the payout fails the
// credit is restored.
func (l *Ledger) Withdraw(ctx context.Context, caller common.Address, now time.Time) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush(ctx)

	c, ok := l.credits[caller]
	if !ok || c.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingToWithdraw, caller.Hex())
	}
	amount := new(big.Int).Set(c)
	l.emit(Event{Kind: EventWithdrawn, At: now, To: caller, Amount: amount})

	if l.payer == nil {
		l.emit(Event{Kind: EventCreditAccrued, At: now, To: caller, Amount: new(big.Int).Set(amount)})
		return nil, fmt.Errorf("%w: no payer configured", ErrPaymentFailed)
	}
	if err := l.payer.Pay(ctx, caller, amount); err != nil {
		l.emit(Event{Kind: EventCreditAccrued, At: now, To: caller, Amount: new(big.Int).Set(amount)})
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	return amount, nil
}

// Held returns the value escrowed for an auction.
func (l *Ledger) Held(auctionID uint64) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h, ok := l.held[auctionID]; ok {
		return new(big.Int).Set(h)
	}
	return new(big.Int)
}

func (l *Ledger) TotalHeld() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := new(big.Int)
	for _, h := range l.held {
		total.Add(total, h)
	}
	return total
}

// Credit returns the claimable balance of addr.
func (l *Ledger) Credit(addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.credits[addr]; ok {
		return new(big.Int).Set(c)
	}
	return new(big.Int)
}

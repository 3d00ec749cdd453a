package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// List offers an asset the caller owns at a fixed price and returns the new
// listing id. The asset stays with the seller until it is bought.
func (l *Ledger) List(ctx context.Context, collection common.Address, tokenID, price *big.Int, caller common.Address, now time.Time) (uint64, error) {
	if price == nil || price.Sign() <= 0 {
		return 0, ErrInvalidPrice
	}
	if tokenID == nil || tokenID.Sign() < 0 {
		return 0, fmt.Errorf("%w: invalid token id", ErrNotOwnerOrUnapproved)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush(ctx)

	if err := l.authorize(ctx, collection, tokenID, caller); err != nil {
		return 0, err
	}
	stale, err := l.claim(collection, tokenID, caller)
	if err != nil {
		return 0, err
	}
	l.supersede(stale, Event{At: now, Collection: collection, TokenID: new(big.Int).Set(tokenID)})

	id := l.nextListing
	l.emit(Event{
		Kind:       EventListed,
		At:         now,
		RecordID:   id,
		Collection: collection,
		TokenID:    new(big.Int).Set(tokenID),
		From:       caller,
		Amount:     new(big.Int).Set(price),
	})
	return id, nil
}

// Buy completes a direct sale. paid must equal the listing price exactly.
// The asset moves first; the seller is paid last.
func (l *Ledger) Buy(ctx context.Context, id uint64, paid *big.Int, caller common.Address, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush(ctx)

	li, ok := l.listings[id]
	if !ok {
		return fmt.Errorf("%w: listing %d not found", ErrListingInactive, id)
	}
	if !li.Active {
		return fmt.Errorf("%w: listing %d", ErrListingInactive, id)
	}
	if paid == nil || paid.Cmp(li.Price) != 0 {
		return fmt.Errorf("%w: listing %d costs %s", ErrWrongAmount, id, li.Price)
	}

	if err := l.registry.Transfer(ctx, li.Collection, li.TokenID, li.Seller, caller); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	price := new(big.Int).Set(li.Price)
	l.emit(Event{
		Kind:       EventListingSold,
		At:         now,
		RecordID:   id,
		Collection: li.Collection,
		TokenID:    new(big.Int).Set(li.TokenID),
		From:       li.Seller,
		To:         caller,
		Amount:     price,
		Points:     l.pointsFor(price),
	})
	l.payout(ctx, li.Seller, price, id, now)
	return nil
}

// Cancel withdraws an active listing. Only its seller may cancel it.
func (l *Ledger) Cancel(ctx context.Context, id uint64, caller common.Address, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush(ctx)

	li, ok := l.listings[id]
	if !ok {
		return fmt.Errorf("%w: listing %d not found", ErrListingInactive, id)
	}
	if !li.Active {
		return fmt.Errorf("%w: listing %d", ErrListingInactive, id)
	}
	if li.Seller != caller {
		return fmt.Errorf("%w: listing %d", ErrNotSeller, id)
	}
	l.emit(Event{
		Kind:       EventListingCanceled,
		At:         now,
		RecordID:   id,
		Collection: li.Collection,
		TokenID:    new(big.Int).Set(li.TokenID),
		From:       caller,
	})
	return nil
}

package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/log"
)

// Start opens an English auction that ends at now+duration.
func (l *Ledger) Start(ctx context.Context, collection common.Address, tokenID, minBid *big.Int, duration time.Duration, caller common.Address, now time.Time) (uint64, error) {
	if minBid == nil || minBid.Sign() <= 0 {
		return 0, ErrInvalidBid
	}
	if duration <= 0 {
		return 0, ErrInvalidDuration
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

	id := l.nextAuction
	l.emit(Event{
		Kind:       EventAuctionStarted,
		At:         now,
		RecordID:   id,
		Collection: collection,
		TokenID:    new(big.Int).Set(tokenID),
		From:       caller,
		Amount:     new(big.Int).Set(minBid),
		Deadline:   now.Add(duration),
	})
	return id, nil
}

// Bid places amount on an auction. The previous highest bid is refunded in
// full after the new one is recorded; a failed refund becomes a claimable
// credit for the outbid bidder and never rejects the new bid.
func (l *Ledger) Bid(ctx context.Context, id uint64, amount *big.Int, caller common.Address, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush(ctx)

	a, ok := l.auctions[id]
	if !ok {
		return fmt.Errorf("%w: auction %d not found", ErrAuctionInactive, id)
	}
	if !a.Active || !now.Before(a.EndTime) {
		return fmt.Errorf("%w: auction %d", ErrAuctionInactive, id)
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: auction %d", ErrBidTooLow, id)
	}
	if !a.HasBid() {
		if amount.Cmp(a.MinBid) < 0 {
			return fmt.Errorf("%w: minimum is %s", ErrBidTooLow, a.MinBid)
		}
	} else if amount.Cmp(a.HighestBid) <= 0 {
		return fmt.Errorf("%w: highest is %s", ErrBidTooLow, a.HighestBid)
	}

	prior, priorBid := a.HighestBidder, new(big.Int).Set(a.HighestBid)
	hadBid := a.HasBid()

	l.emit(Event{
		Kind:       EventBidPlaced,
		At:         now,
		RecordID:   id,
		Collection: a.Collection,
		TokenID:    new(big.Int).Set(a.TokenID),
		From:       caller,
		Amount:     new(big.Int).Set(amount),
	})
	if hadBid {
		l.emit(Event{
			Kind:       EventBidRefunded,
			At:         now,
			RecordID:   id,
			Collection: a.Collection,
			TokenID:    new(big.Int).Set(a.TokenID),
			To:         prior,
			Amount:     priorBid,
		})
		l.payout(ctx, prior, priorBid, id, now)
	}
	return nil
}

// End closes an auction whose deadline has passed. Anyone may call it.
// With a bidder the asset goes to the winner and the seller is paid;
// without one the auction is voided and nothing moves. If the seller can no
// longer deliver the asset, the auction is voided and the winning bid goes
// back to its bidder. Other transfer failures leave the auction open for a
// later End.
func (l *Ledger) End(ctx context.Context, id uint64, caller common.Address, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush(ctx)

	a, ok := l.auctions[id]
	if !ok {
		return fmt.Errorf("%w: auction %d not found", ErrAuctionInactive, id)
	}
	if !a.Active {
		return fmt.Errorf("%w: auction %d is %s", ErrAlreadySettled, id, a.State)
	}
	if now.Before(a.EndTime) {
		return fmt.Errorf("%w: auction %d ends at %s", ErrAuctionStillActive, id, a.EndTime.Format(time.RFC3339))
	}

	if !a.HasBid() {
		l.emit(Event{
			Kind:       EventAuctionVoided,
			At:         now,
			RecordID:   id,
			Collection: a.Collection,
			TokenID:    new(big.Int).Set(a.TokenID),
			From:       caller,
		})
		return nil
	}

	if err := l.registry.Transfer(ctx, a.Collection, a.TokenID, a.Seller, a.HighestBidder); err != nil {
		if l.sellerLost(ctx, a) {
			l.forfeit(ctx, a, caller, now)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	price := new(big.Int).Set(a.HighestBid)
	seller := a.Seller
	l.emit(Event{
		Kind:       EventAuctionSettled,
		At:         now,
		RecordID:   id,
		Collection: a.Collection,
		TokenID:    new(big.Int).Set(a.TokenID),
		From:       seller,
		To:         a.HighestBidder,
		Amount:     price,
		Points:     l.pointsFor(price),
	})
	l.payout(ctx, seller, price, id, now)
	return nil
}

// sellerLost reports whether the seller no longer owns the asset or no
// longer lets the market move it. Registry errors count as transient.
func (l *Ledger) sellerLost(ctx context.Context, a *Auction) bool {
	owner, err := l.registry.OwnerOf(ctx, a.Collection, a.TokenID)
	if err != nil {
		return false
	}
	if owner != a.Seller {
		return true
	}
	ok, err := l.registry.IsApprovedForTransfer(ctx, a.Collection, a.TokenID, l.operator)
	return err == nil && !ok
}

// forfeit voids an auction the seller cannot deliver and refunds the
// highest bid.
func (l *Ledger) forfeit(ctx context.Context, a *Auction, caller common.Address, now time.Time) {
	winner, bid := a.HighestBidder, new(big.Int).Set(a.HighestBid)
	log.WithFields(log.Fields{"auction": a.ID, "seller": a.Seller.Hex(), "bidder": winner.Hex()}).
		Warn("seller can no longer deliver, voiding auction")
	l.emit(Event{
		Kind:       EventBidRefunded,
		At:         now,
		RecordID:   a.ID,
		Collection: a.Collection,
		TokenID:    new(big.Int).Set(a.TokenID),
		To:         winner,
		Amount:     bid,
	})
	l.emit(Event{
		Kind:       EventAuctionVoided,
		At:         now,
		RecordID:   a.ID,
		Collection: a.Collection,
		TokenID:    new(big.Int).Set(a.TokenID),
		From:       caller,
	})
	l.payout(ctx, winner, bid, a.ID, now)
}

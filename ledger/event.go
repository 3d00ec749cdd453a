package ledger

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type EventKind string

const (
	EventListed            EventKind = "listed"
	EventListingSold       EventKind = "listing_sold"
	EventListingCanceled   EventKind = "listing_canceled"
	EventListingSuperseded EventKind = "listing_superseded"
	EventAuctionStarted    EventKind = "auction_started"
	EventBidPlaced         EventKind = "bid_placed"
	EventBidRefunded       EventKind = "bid_refunded"
	EventAuctionSettled    EventKind = "auction_settled"
	EventAuctionVoided     EventKind = "auction_voided"
	EventCreditAccrued     EventKind = "credit_accrued"
	EventWithdrawn         EventKind = "withdrawn"
)

// Event is one state change of the ledger. Seq is contiguous from 1.
//
// From is the acting or paying side (seller, bidder), To the receiving side
// (buyer, winner, refunded bidder, credited account). Points is the loyalty
// credit each party earned on a sale event.
type Event struct {
	Seq        uint64         `json:"seq"`
	Kind       EventKind      `json:"kind"`
	At         time.Time      `json:"at"`
	RecordID   uint64         `json:"record_id"`
	Collection common.Address `json:"collection"`
	TokenID    *big.Int       `json:"token_id,omitempty"`
	From       common.Address `json:"from"`
	To         common.Address `json:"to"`
	Amount     *big.Int       `json:"amount,omitempty"`
	Deadline   time.Time      `json:"deadline,omitempty"`
	Points     uint64         `json:"points,omitempty"`
}

// emit stamps ev with the next sequence number, applies it and queues it for
// the journal and subscribers.
func (l *Ledger) emit(ev Event) {
	l.seq++
	ev.Seq = l.seq
	l.apply(&ev)
	l.batch = append(l.batch, ev)
}

// apply is the only place ledger state changes. Live operations and Replay
// both go through it.
func (l *Ledger) apply(ev *Event) {
	switch ev.Kind {
	case EventListed:
		l.listings[ev.RecordID] = &Listing{
			ID:         ev.RecordID,
			Collection: ev.Collection,
			TokenID:    new(big.Int).Set(ev.TokenID),
			Seller:     ev.From,
			Price:      new(big.Int).Set(ev.Amount),
			Active:     true,
			CreatedAt:  ev.At,
		}
		if ev.RecordID >= l.nextListing {
			l.nextListing = ev.RecordID + 1
		}
		l.assets[keyOf(ev.Collection, ev.TokenID)] = slot{id: ev.RecordID}

	case EventListingSold:
		li := l.listings[ev.RecordID]
		li.Active = false
		li.Buyer = ev.To
		li.ClosedAt = ev.At
		delete(l.assets, keyOf(li.Collection, li.TokenID))
		l.credit(ev.From, ev.Points)
		l.credit(ev.To, ev.Points)

	case EventListingCanceled, EventListingSuperseded:
		li := l.listings[ev.RecordID]
		li.Active = false
		li.ClosedAt = ev.At
		delete(l.assets, keyOf(li.Collection, li.TokenID))

	case EventAuctionStarted:
		a := &Auction{
			ID:         ev.RecordID,
			Collection: ev.Collection,
			TokenID:    new(big.Int).Set(ev.TokenID),
			Seller:     ev.From,
			MinBid:     new(big.Int).Set(ev.Amount),
			HighestBid: new(big.Int),
			EndTime:    ev.Deadline,
			Active:     true,
			State:      AuctionActive,
			CreatedAt:  ev.At,
		}
		l.auctions[ev.RecordID] = a
		if ev.RecordID >= l.nextAuction {
			l.nextAuction = ev.RecordID + 1
		}
		l.assets[keyOf(ev.Collection, ev.TokenID)] = slot{auction: true, id: ev.RecordID}
		l.deadlines.ReplaceOrInsert(deadline{end: a.EndTime, id: a.ID})

	case EventBidPlaced:
		a := l.auctions[ev.RecordID]
		a.HighestBid = new(big.Int).Set(ev.Amount)
		a.HighestBidder = ev.From
		a.Bids++
		l.hold(ev.RecordID, ev.Amount)

	case EventBidRefunded:
		l.release(ev.RecordID, ev.Amount)

	case EventAuctionSettled:
		a := l.auctions[ev.RecordID]
		a.Active = false
		a.State = AuctionSettled
		l.release(ev.RecordID, ev.Amount)
		l.closeAuction(a)
		l.credit(ev.From, ev.Points)
		l.credit(ev.To, ev.Points)

	case EventAuctionVoided:
		a := l.auctions[ev.RecordID]
		a.Active = false
		a.State = AuctionVoided
		l.closeAuction(a)

	case EventCreditAccrued:
		l.accrue(ev.To, ev.Amount)

	case EventWithdrawn:
		l.debitCredit(ev.To, ev.Amount)
	}
}

func (l *Ledger) closeAuction(a *Auction) {
	l.deadlines.Delete(deadline{end: a.EndTime, id: a.ID})
	k := keyOf(a.Collection, a.TokenID)
	if s, ok := l.assets[k]; ok && s.auction && s.id == a.ID {
		delete(l.assets, k)
	}
}

// Replay rebuilds state from a journal. It must run on a fresh ledger before
// any operation; events must be contiguous from Seq 1.
func (l *Ledger) Replay(events []Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range events {
		ev := events[i]
		if ev.Seq != l.seq+1 {
			return fmt.Errorf("replay: expected seq %d, got %d", l.seq+1, ev.Seq)
		}
		if err := l.check(&ev); err != nil {
			return fmt.Errorf("replay seq %d: %w", ev.Seq, err)
		}
		l.seq = ev.Seq
		l.apply(&ev)
	}
	return nil
}

// check rejects journal entries that reference records apply would need but
// that do not exist.
func (l *Ledger) check(ev *Event) error {
	switch ev.Kind {
	case EventListed, EventAuctionStarted:
		if ev.TokenID == nil || ev.Amount == nil {
			return fmt.Errorf("%s without token or amount", ev.Kind)
		}
	case EventListingSold, EventListingCanceled, EventListingSuperseded:
		if _, ok := l.listings[ev.RecordID]; !ok {
			return fmt.Errorf("%s for unknown listing %d", ev.Kind, ev.RecordID)
		}
	case EventBidPlaced, EventBidRefunded, EventAuctionSettled, EventAuctionVoided:
		if _, ok := l.auctions[ev.RecordID]; !ok {
			return fmt.Errorf("%s for unknown auction %d", ev.Kind, ev.RecordID)
		}
		if ev.Kind != EventAuctionVoided && ev.Amount == nil {
			return fmt.Errorf("%s without amount", ev.Kind)
		}
	case EventCreditAccrued, EventWithdrawn:
		if ev.Amount == nil {
			return fmt.Errorf("%s without amount", ev.Kind)
		}
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

// Seq returns the sequence number of the last applied event.
func (l *Ledger) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

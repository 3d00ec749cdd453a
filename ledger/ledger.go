package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/btree"

	"nftmarket/log"
)

// DefaultUnitValue is 0.1 ether: one loyalty point per 1e17 wei of sale value.
var DefaultUnitValue = big.NewInt(1e17)

type Config struct {
	Registry Registry
	// Payer receives every outbound transfer. Without one, all proceeds and
	// refunds become claimable credits.
	Payer   Payer
	Journal Journal
	// Operator is the address the registry must approve for transfers.
	Operator  common.Address
	UnitValue *big.Int
}

// Ledger is the marketplace state machine. All operations are serialized by
// a single mutex; collaborators are called with it held and must not call
// back into the ledger.
type Ledger struct {
	mu sync.Mutex

	registry Registry
	payer    Payer
	journal  Journal
	operator common.Address
	unit     *big.Int

	listings    map[uint64]*Listing
	auctions    map[uint64]*Auction
	nextListing uint64
	nextAuction uint64
	assets      map[assetKey]slot
	deadlines   *btree.BTreeG[deadline]
	held        map[uint64]*big.Int
	credits     map[common.Address]*big.Int
	points      map[common.Address]uint64

	seq     uint64
	batch   []Event
	pending []Event
	subs    map[int]chan Event
	nextSub int
}

func New(cfg Config) (*Ledger, error) {
	if cfg.Registry == nil {
		return nil, errors.New("ledger: registry is required")
	}
	unit := cfg.UnitValue
	if unit == nil {
		unit = DefaultUnitValue
	}
	if unit.Sign() <= 0 {
		return nil, fmt.Errorf("ledger: unit value must be > 0, got %s", unit)
	}
	return &Ledger{
		registry:  cfg.Registry,
		payer:     cfg.Payer,
		journal:   cfg.Journal,
		operator:  cfg.Operator,
		unit:      new(big.Int).Set(unit),
		listings:  make(map[uint64]*Listing),
		auctions:  make(map[uint64]*Auction),
		assets:    make(map[assetKey]slot),
		deadlines: newDeadlineIndex(),
		held:      make(map[uint64]*big.Int),
		credits:   make(map[common.Address]*big.Int),
		points:    make(map[common.Address]uint64),
		subs:      make(map[int]chan Event),
	}, nil
}

// flush hands the events of the finished operation to the journal and then
// to the subscribers. Events the journal rejects stay queued, are retried
// with the next operation and reach subscribers only once stored.
func (l *Ledger) flush(ctx context.Context) {
	if len(l.batch) == 0 {
		return
	}
	batch := l.batch
	l.batch = nil

	if l.journal != nil {
		l.pending = append(l.pending, batch...)
		if err := l.journal.Append(ctx, l.pending); err != nil {
			log.WithFields(log.Fields{"pending": len(l.pending), "seq": l.seq}).
				Errorf("journal append failed: %v", err)
			return
		}
		batch, l.pending = l.pending, nil
	}
	l.publish(batch)
}

func (l *Ledger) publish(events []Event) {
	for _, ev := range events {
		for _, ch := range l.subs {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Sync retries the events still waiting for the journal.
func (l *Ledger) Sync(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.journal == nil || len(l.pending) == 0 {
		return nil
	}
	if err := l.journal.Append(ctx, l.pending); err != nil {
		return fmt.Errorf("journal: %d events pending: %w", len(l.pending), err)
	}
	batch := l.pending
	l.pending = nil
	l.publish(batch)
	return nil
}

// Pending returns how many events still wait for the journal.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Subscribe returns a channel receiving every event stored from now on, in
// seq order. Slow subscribers miss events instead of blocking the ledger.
func (l *Ledger) Subscribe(buffer int) (<-chan Event, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSub
	l.nextSub++
	ch := make(chan Event, buffer)
	l.subs[id] = ch
	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(c)
		}
	}
}

// authorize checks that caller owns the asset and the operator may move it.
func (l *Ledger) authorize(ctx context.Context, collection common.Address, tokenID *big.Int, caller common.Address) error {
	owner, err := l.registry.OwnerOf(ctx, collection, tokenID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotOwnerOrUnapproved, err)
	}
	if owner != caller {
		return fmt.Errorf("%w: token %s is owned by %s", ErrNotOwnerOrUnapproved, tokenID, owner.Hex())
	}
	ok, err := l.registry.IsApprovedForTransfer(ctx, collection, tokenID, l.operator)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotOwnerOrUnapproved, err)
	}
	if !ok {
		return fmt.Errorf("%w: market not approved for token %s", ErrNotOwnerOrUnapproved, tokenID)
	}
	return nil
}

// claim finds the open record on an asset, if any. A record whose seller
// still owns the asset blocks a new one. A stale listing, or a stale auction
// without bids, is returned so the caller can close it.
func (l *Ledger) claim(collection common.Address, tokenID *big.Int, owner common.Address) (*slot, error) {
	s, ok := l.assets[keyOf(collection, tokenID)]
	if !ok {
		return nil, nil
	}
	if !s.auction {
		if l.listings[s.id].Seller == owner {
			return nil, fmt.Errorf("%w: listing %d", ErrAlreadyListed, s.id)
		}
		return &s, nil
	}
	a := l.auctions[s.id]
	if a.Seller == owner || a.HasBid() {
		return nil, fmt.Errorf("%w: auction %d", ErrAlreadyListed, s.id)
	}
	return &s, nil
}

func (l *Ledger) supersede(s *slot, ev Event) {
	if s == nil {
		return
	}
	ev.RecordID = s.id
	if s.auction {
		ev.Kind = EventAuctionVoided
	} else {
		ev.Kind = EventListingSuperseded
	}
	l.emit(ev)
}

// Listing returns a copy of the listing with the given id.
func (l *Ledger) Listing(id uint64) (Listing, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	li, ok := l.listings[id]
	if !ok {
		return Listing{}, false
	}
	return copyListing(li), true
}

// Auction returns a copy of the auction with the given id.
func (l *Ledger) Auction(id uint64) (Auction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.auctions[id]
	if !ok {
		return Auction{}, false
	}
	return copyAuction(a), true
}

// Listings returns the listings matching f, ordered by id.
func (l *Ledger) Listings(f Filter) []Listing {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Listing, 0, len(l.listings))
	for _, li := range l.listings {
		if f.match(li.Seller, li.Collection, li.Active) {
			out = append(out, copyListing(li))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Auctions returns the auctions matching f, ordered by id.
func (l *Ledger) Auctions(f Filter) []Auction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Auction, 0, len(l.auctions))
	for _, a := range l.auctions {
		if f.match(a.Seller, a.Collection, a.Active) {
			out = append(out, copyAuction(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

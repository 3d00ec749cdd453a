package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is the external authority over asset custody. The ledger never
// holds assets itself; it asks the registry to move them.
type Registry interface {
	OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)
	IsApprovedForTransfer(ctx context.Context, collection common.Address, tokenID *big.Int, operator common.Address) (bool, error)
	Transfer(ctx context.Context, collection common.Address, tokenID *big.Int, from, to common.Address) error
}

// Payer sends native currency out of the market's custody.
type Payer interface {
	Pay(ctx context.Context, to common.Address, amount *big.Int) error
}

// Journal durably records events. Append is called after every operation
// with the events it produced, in order.
type Journal interface {
	Append(ctx context.Context, events []Event) error
}

// Listing is a fixed-price offer for one asset.
type Listing struct {
	ID         uint64         `json:"id"`
	Collection common.Address `json:"collection"`
	TokenID    *big.Int       `json:"token_id"`
	Seller     common.Address `json:"seller"`
	Price      *big.Int       `json:"price"`
	Active     bool           `json:"active"`
	Buyer      common.Address `json:"buyer"`
	CreatedAt  time.Time      `json:"created_at"`
	ClosedAt   time.Time      `json:"closed_at"`
}

// AuctionState is the lifecycle position of an auction.
type AuctionState string

const (
	AuctionActive  AuctionState = "active"
	AuctionSettled AuctionState = "settled"
	AuctionVoided  AuctionState = "voided"
)

// Auction is a time-bounded English auction for one asset. A zero
// HighestBidder means no bid has been accepted yet.
type Auction struct {
	ID            uint64         `json:"id"`
	Collection    common.Address `json:"collection"`
	TokenID       *big.Int       `json:"token_id"`
	Seller        common.Address `json:"seller"`
	MinBid        *big.Int       `json:"min_bid"`
	HighestBid    *big.Int       `json:"highest_bid"`
	HighestBidder common.Address `json:"highest_bidder"`
	EndTime       time.Time      `json:"end_time"`
	Active        bool           `json:"active"`
	State         AuctionState   `json:"state"`
	Bids          uint64         `json:"bids"`
	CreatedAt     time.Time      `json:"created_at"`
}

// HasBid reports whether at least one bid was accepted.
func (a *Auction) HasBid() bool {
	return a.HighestBidder != (common.Address{})
}

// Filter narrows enumeration reads. Zero fields match everything.
type Filter struct {
	Seller     common.Address
	Collection common.Address
	ActiveOnly bool
}

func (f Filter) match(seller, collection common.Address, active bool) bool {
	if f.Seller != (common.Address{}) && f.Seller != seller {
		return false
	}
	if f.Collection != (common.Address{}) && f.Collection != collection {
		return false
	}
	return !f.ActiveOnly || active
}

type assetKey struct {
	collection common.Address
	tokenID    string
}

func keyOf(collection common.Address, tokenID *big.Int) assetKey {
	return assetKey{collection: collection, tokenID: tokenID.String()}
}

func copyListing(l *Listing) Listing {
	c := *l
	c.TokenID = new(big.Int).Set(l.TokenID)
	c.Price = new(big.Int).Set(l.Price)
	return c
}

func copyAuction(a *Auction) Auction {
	c := *a
	c.TokenID = new(big.Int).Set(a.TokenID)
	c.MinBid = new(big.Int).Set(a.MinBid)
	c.HighestBid = new(big.Int).Set(a.HighestBid)
	return c
}

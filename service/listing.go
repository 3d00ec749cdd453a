package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/database"
	"nftmarket/log"
)

func (m *Market) List(ctx context.Context, caller, collection common.Address, tokenID, price *big.Int) (id uint64, err error) {
	defer func(start time.Time) {
		m.observe("list", start, err, log.Fields{"caller": caller.Hex(), "token": tokenID.String()})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.List(ctx, collection, tokenID, price, caller, m.now())
}

// Buy pays for a listing out of the caller's custodial balance.
func (m *Market) Buy(ctx context.Context, caller common.Address, id uint64, paid *big.Int) (err error) {
	defer func(start time.Time) {
		m.observe("buy", start, err, log.Fields{"caller": caller.Hex(), "listing": id})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withAttached(ctx, caller, paid, func() error {
		return m.ledger.Buy(ctx, id, paid, caller, m.now())
	})
}

func (m *Market) Cancel(ctx context.Context, caller common.Address, id uint64) (err error) {
	defer func(start time.Time) {
		m.observe("cancel", start, err, log.Fields{"caller": caller.Hex(), "listing": id})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Cancel(ctx, id, caller, m.now())
}

// GetListing returns the live record of a listing.
func (m *Market) GetListing(id uint64) (*ListingRes, error) {
	l, ok := m.ledger.Listing(id)
	if !ok {
		return nil, fmt.Errorf("%w: listing %d", ErrNotFound, id)
	}
	return listingRes(l), nil
}

func (m *Market) FetchListings(ctx context.Context, q database.Query, page, size int) (*ListingsRes, error) {
	rows, total, err := m.store.Listings(ctx, q, page, size)
	if err != nil {
		return nil, err
	}
	return &ListingsRes{Total: total, Listings: rows}, nil
}

func (m *Market) FetchSales(ctx context.Context, q database.Query, page, size int) (*SalesRes, error) {
	rows, total, err := m.store.Sales(ctx, q, page, size)
	if err != nil {
		return nil, err
	}
	return &SalesRes{Total: total, Sales: rows}, nil
}

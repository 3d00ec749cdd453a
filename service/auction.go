package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/database"
	"nftmarket/ledger"
	"nftmarket/log"
)

func (m *Market) StartAuction(ctx context.Context, caller, collection common.Address, tokenID, minBid *big.Int, duration time.Duration) (id uint64, err error) {
	defer func(start time.Time) {
		m.observe("start", start, err, log.Fields{"caller": caller.Hex(), "token": tokenID.String()})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Start(ctx, collection, tokenID, minBid, duration, caller, m.now())
}

// Bid escrows amount out of the caller's custodial balance.
func (m *Market) Bid(ctx context.Context, caller common.Address, id uint64, amount *big.Int) (err error) {
	defer func(start time.Time) {
		m.observe("bid", start, err, log.Fields{"caller": caller.Hex(), "auction": id})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withAttached(ctx, caller, amount, func() error {
		return m.ledger.Bid(ctx, id, amount, caller, m.now())
	})
}

func (m *Market) End(ctx context.Context, id uint64, caller common.Address) (err error) {
	defer func(start time.Time) {
		m.observe("end", start, err, log.Fields{"caller": caller.Hex(), "auction": id})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.End(ctx, id, caller, m.now())
}

// Expired lists the active auctions past their end time.
func (m *Market) Expired() []ledger.Auction {
	return m.ledger.Expired(m.now())
}

func (m *Market) GetAuction(id uint64) (*AuctionRes, error) {
	a, ok := m.ledger.Auction(id)
	if !ok {
		return nil, fmt.Errorf("%w: auction %d", ErrNotFound, id)
	}
	return auctionRes(a, m.ledger.Held(id)), nil
}

func (m *Market) FetchAuctions(ctx context.Context, q database.Query, page, size int) (*AuctionsRes, error) {
	rows, total, err := m.store.Auctions(ctx, q, page, size)
	if err != nil {
		return nil, err
	}
	return &AuctionsRes{Total: total, Auctions: rows}, nil
}

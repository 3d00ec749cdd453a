package database

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"nftmarket/model"
)

// Query narrows paged reads. Empty fields match everything.
type Query struct {
	Seller     string
	Buyer      string
	Collection string
	Active     *bool
	State      string
}

func (q Query) apply(db *gorm.DB) *gorm.DB {
	if q.Seller != "" {
		db = db.Where("seller = ?", q.Seller)
	}
	if q.Buyer != "" {
		db = db.Where("buyer = ?", q.Buyer)
	}
	if q.Collection != "" {
		db = db.Where("collection = ?", q.Collection)
	}
	if q.Active != nil {
		db = db.Where("active = ?", *q.Active)
	}
	if q.State != "" {
		db = db.Where("state = ?", q.State)
	}
	return db
}

func paged[T any](ctx context.Context, db *gorm.DB, q Query, order string, page, size int) (rows []T, total int64, err error) {
	var zero T
	base := q.apply(db.WithContext(ctx).Model(&zero))
	if err = base.Count(&total).Error; err != nil {
		return
	}
	err = q.apply(db.WithContext(ctx)).Order(order).Offset((page - 1) * size).Limit(size).Find(&rows).Error
	return
}

// Listings pages listings, newest first.
func (s *Store) Listings(ctx context.Context, q Query, page, size int) ([]model.Listing, int64, error) {
	q.Buyer, q.State = "", ""
	return paged[model.Listing](ctx, s.DB, q, "id DESC", page, size)
}

// Auctions pages auctions, newest first.
func (s *Store) Auctions(ctx context.Context, q Query, page, size int) ([]model.Auction, int64, error) {
	q.Buyer, q.Active = "", nil
	return paged[model.Auction](ctx, s.DB, q, "id DESC", page, size)
}

// Sales pages completed sales, newest first.
func (s *Store) Sales(ctx context.Context, q Query, page, size int) ([]model.Sale, int64, error) {
	q.Active, q.State = nil, ""
	return paged[model.Sale](ctx, s.DB, q, "seq DESC", page, size)
}

// Balances loads every stored wallet balance.
func (s *Store) Balances(ctx context.Context) (map[common.Address]*big.Int, error) {
	var rows []model.Balance
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[common.Address]*big.Int, len(rows))
	for _, r := range rows {
		v, ok := new(big.Int).SetString(r.Amount, 10)
		if !ok {
			return nil, errors.Errorf("balance of %s: bad amount %q", r.Address, r.Amount)
		}
		out[common.HexToAddress(r.Address)] = v
	}
	return out, nil
}

package database

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nftmarket/model"
	"nftmarket/wallet"
)

const depositCursor = "deposits"

// Book is the custodial book whose changes are committed together with the
// journal.
type Book interface {
	Unsaved() map[common.Address]*big.Int
	MarkSaved(map[common.Address]*big.Int)
}

// TrackBalances makes every journal append also store the changed balances
// of book, in the same transaction.
func (s *Store) TrackBalances(book Book) {
	s.book = book
}

// SyncBalances stores the changed balances on their own, for changes no
// ledger event accompanies.
func (s *Store) SyncBalances(ctx context.Context) error {
	return s.commit(ctx, func(*gorm.DB) error { return nil })
}

// commit runs fn and stores the changed balances in one transaction.
func (s *Store) commit(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var snap map[common.Address]*big.Int
	if s.book != nil {
		snap = s.book.Unsaved()
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		return saveBalances(tx, snap)
	})
	if err != nil {
		return err
	}
	if s.book != nil {
		s.book.MarkSaved(snap)
	}
	return nil
}

func saveBalances(tx *gorm.DB, balances map[common.Address]*big.Int) error {
	if len(balances) == 0 {
		return nil
	}
	rows := make([]model.Balance, 0, len(balances))
	for addr, bal := range balances {
		rows = append(rows, model.Balance{Address: addr.Hex(), Amount: bal.String()})
	}
	err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	return errors.Wrap(err, "save balances")
}

// DepositCursor returns the last block scanned for deposits. ok is false
// before the first scan.
func (s *Store) DepositCursor(ctx context.Context) (block uint64, ok bool, err error) {
	var rows []model.Cursor
	if err = s.DB.WithContext(ctx).Where("name = ?", depositCursor).Limit(1).Find(&rows).Error; err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Block, true, nil
}

// CommitDeposits records deposits seen up to block, moves the cursor and
// stores the credited balances in one transaction.
func (s *Store) CommitDeposits(ctx context.Context, block uint64, deposits []wallet.Deposit) error {
	return s.commit(ctx, func(tx *gorm.DB) error {
		for _, d := range deposits {
			row := model.Deposit{TxHash: d.Tx.Hex(), Address: d.From.Hex(), Amount: d.Amount.String(), Block: d.Block}
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrapf(err, "deposit %s", d.Tx.Hex())
			}
		}
		cursor := model.Cursor{Name: depositCursor, Block: block}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cursor).Error
	})
}

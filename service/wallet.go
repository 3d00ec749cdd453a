package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/common/types"
	"nftmarket/common/utils"
	"nftmarket/log"
	"nftmarket/monitor"
	"nftmarket/wallet"
)

func (m *Market) Points(addr common.Address) *PointsRes {
	return &PointsRes{
		Address:   addr.Hex(),
		Points:    m.ledger.Points(addr),
		UnitValue: types.NewBigInt(m.ledger.UnitValue()),
	}
}

func (m *Market) Wallet(addr common.Address) *WalletRes {
	bal := m.book.Balance(addr)
	return &WalletRes{
		Address:      addr.Hex(),
		Balance:      types.NewBigInt(bal),
		BalanceEther: utils.WeiToEther(bal),
		Credit:       types.NewBigInt(m.ledger.Credit(addr)),
	}
}

// Deposit credits the caller's custodial balance. Only for local runs.
func (m *Market) Deposit(ctx context.Context, caller common.Address, amount *big.Int) (*WalletRes, error) {
	if !m.allowDeposit {
		return nil, ErrDepositDisabled
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ledger.Sync(ctx); err != nil {
		return nil, err
	}
	if err := m.book.Deposit(ctx, caller, amount); err != nil {
		return nil, err
	}
	if err := m.store.SyncBalances(ctx); err != nil {
		m.takeBack(ctx, []wallet.Deposit{{From: caller, Amount: amount}})
		return nil, err
	}
	log.Infof("deposit of %s wei to %s", amount, caller.Hex())
	return m.Wallet(caller), nil
}

// Sync stores the ledger events a failing journal left pending.
func (m *Market) Sync(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.ledger.Sync(ctx)
	monitor.SetLedgerGauges(m.ledger.TotalHeld(), m.ledger.Pending())
	return err
}

// FundedBlock returns the last chain block whose deposits are credited.
func (m *Market) FundedBlock(ctx context.Context) (uint64, bool, error) {
	return m.store.DepositCursor(ctx)
}

// Fund credits deposits observed on chain up to block. Either all of them
// are credited and the block recorded, or none.
func (m *Market) Fund(ctx context.Context, block uint64, deposits []wallet.Deposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ledger.Sync(ctx); err != nil {
		return err
	}
	credited := make([]wallet.Deposit, 0, len(deposits))
	for _, d := range deposits {
		if err := m.book.Deposit(ctx, d.From, d.Amount); err != nil {
			log.WithFields(log.Fields{"tx": d.Tx.Hex(), "err": err}).Warn("skipping deposit")
			continue
		}
		credited = append(credited, d)
	}
	if err := m.store.CommitDeposits(ctx, block, credited); err != nil {
		m.takeBack(ctx, credited)
		return err
	}
	for _, d := range credited {
		log.Infof("deposit of %s wei from %s in tx %s", d.Amount, d.From.Hex(), d.Tx.Hex())
	}
	return nil
}

// takeBack reverses book credits whose commit failed.
func (m *Market) takeBack(ctx context.Context, deposits []wallet.Deposit) {
	for _, d := range deposits {
		if err := m.book.Debit(ctx, d.From, d.Amount); err != nil {
			log.WithFields(log.Fields{"address": d.From.Hex(), "amount": d.Amount.String(), "err": err}).
				Error("could not reverse uncommitted deposit")
		}
	}
}

// Withdraw pays out the caller's claimable credit.
func (m *Market) Withdraw(ctx context.Context, caller common.Address) (res *WithdrawRes, err error) {
	defer func(start time.Time) {
		m.observe("withdraw", start, err, log.Fields{"caller": caller.Hex()})
	}(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	amount, err := m.ledger.Withdraw(ctx, caller, m.now())
	if err != nil {
		return nil, err
	}
	return &WithdrawRes{Amount: types.NewBigInt(amount)}, nil
}

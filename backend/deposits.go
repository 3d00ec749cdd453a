package backend

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/robfig/cron/v3"

	"nftmarket/log"
	"nftmarket/monitor"
	"nftmarket/wallet"
)

// Chain is the node access the deposit watcher reads blocks through.
type Chain interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
}

// Funder credits deposits to custodial balances.
type Funder interface {
	FundedBlock(ctx context.Context) (uint64, bool, error)
	Fund(ctx context.Context, block uint64, deposits []wallet.Deposit) error
}

// DepositWatcher credits native coin sent to the operator on chain to the
// sender's custodial balance. Only blocks with enough confirmations are
// read, so a reorg cannot take back a credited deposit.
type DepositWatcher struct {
	chain         Chain
	funder        Funder
	operator      common.Address
	signer        types.Signer
	confirmations uint64
	maxBlocks     uint64
	timeout       time.Duration
	cron          *cron.Cron
}

func NewDepositWatcher(chain Chain, funder Funder, operator common.Address, chainID int64, confirmations uint64) *DepositWatcher {
	return &DepositWatcher{
		chain:         chain,
		funder:        funder,
		operator:      operator,
		signer:        types.LatestSignerForChainID(big.NewInt(chainID)),
		confirmations: confirmations,
		maxBlocks:     200,
		timeout:       time.Minute,
		cron:          cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Run schedules Scan with a cron spec and starts the scheduler.
func (w *DepositWatcher) Run(spec string) error {
	_, err := w.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if _, err := w.Scan(ctx); err != nil {
			log.Warnf("deposit scan: %v", err)
		}
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	log.Infof("deposit watcher scheduled: %s, %d confirmations", spec, w.confirmations)
	return nil
}

func (w *DepositWatcher) Stop() {
	<-w.cron.Stop().Done()
}

// Scan credits the deposits of the confirmed blocks after the last scanned
// one, at most maxBlocks per call, and returns how many it found. The first
// scan only records the current block: coin sent before the watcher existed
// is not a deposit.
func (w *DepositWatcher) Scan(ctx context.Context) (int, error) {
	head, err := w.chain.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	if head < w.confirmations {
		return 0, nil
	}
	safe := head - w.confirmations

	last, ok, err := w.funder.FundedBlock(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.Infof("deposit watcher starts after block %d", safe)
		return 0, w.funder.Fund(ctx, safe, nil)
	}
	if last >= safe {
		return 0, nil
	}
	to := safe
	if to-last > w.maxBlocks {
		to = last + w.maxBlocks
	}

	var deposits []wallet.Deposit
	for n := last + 1; n <= to; n++ {
		block, err := w.chain.BlockByNumber(ctx, new(big.Int).SetUint64(n))
		if err != nil {
			return 0, err
		}
		deposits = append(deposits, w.deposits(block)...)
	}
	if err := w.funder.Fund(ctx, to, deposits); err != nil {
		return 0, err
	}
	monitor.RecordDepositScan(to, len(deposits))
	return len(deposits), nil
}

// deposits picks the value transfers to the operator out of block. A plain
// transfer to an account without code cannot revert once included.
func (w *DepositWatcher) deposits(block *types.Block) []wallet.Deposit {
	var out []wallet.Deposit
	for _, tx := range block.Transactions() {
		if tx.To() == nil || *tx.To() != w.operator || tx.Value().Sign() <= 0 {
			continue
		}
		from, err := types.Sender(w.signer, tx)
		if err != nil {
			log.WithFields(log.Fields{"tx": tx.Hash().Hex(), "err": err}).Warn("cannot recover deposit sender")
			continue
		}
		if from == w.operator {
			continue
		}
		out = append(out, wallet.Deposit{
			Tx:     tx.Hash(),
			Block:  block.NumberU64(),
			From:   from,
			Amount: new(big.Int).Set(tx.Value()),
		})
	}
	return out
}

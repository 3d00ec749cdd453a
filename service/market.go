package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/database"
	"nftmarket/ledger"
	"nftmarket/log"
	"nftmarket/monitor"
	"nftmarket/wallet"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDepositDisabled is returned by Deposit unless deposits are enabled.
	ErrDepositDisabled = errors.New("deposits are disabled")
)

type Config struct {
	Ledger       *ledger.Ledger
	Book         *wallet.Book
	Store        *database.Store
	Now          func() time.Time // defaults to time.Now
	AllowDeposit bool
}

// Market serves the API: it supplies the clock to the ledger, moves attached
// value out of the custodial book and reads from the store.
//
// Operations that change the ledger or the book hold mu, so every balance
// change is committed in the same transaction as the events it pays for.
type Market struct {
	mu           sync.Mutex
	ledger       *ledger.Ledger
	book         *wallet.Book
	store        *database.Store
	now          func() time.Time
	allowDeposit bool
}

func NewMarket(cfg Config) (*Market, error) {
	if cfg.Ledger == nil || cfg.Book == nil || cfg.Store == nil {
		return nil, errors.New("market needs a ledger, a book and a store")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	cfg.Store.TrackBalances(cfg.Book)
	return &Market{
		ledger:       cfg.Ledger,
		book:         cfg.Book,
		store:        cfg.Store,
		now:          now,
		allowDeposit: cfg.AllowDeposit,
	}, nil
}

// Restore loads the stored balances and replays the journal into the ledger.
// It must run before the first operation.
func (m *Market) Restore(ctx context.Context) error {
	balances, err := m.store.Balances(ctx)
	if err != nil {
		return err
	}
	m.book.Load(balances)
	events, err := m.store.Events(ctx)
	if err != nil {
		return err
	}
	if err := m.ledger.Replay(events); err != nil {
		return err
	}
	log.Infof("restored %d events and %d balances", len(events), len(balances))
	monitor.SetLedgerGauges(m.ledger.TotalHeld(), m.ledger.Pending())
	return nil
}

// Now is the market clock.
func (m *Market) Now() time.Time {
	return m.now()
}

// Ledger exposes the ledger for subscriptions and direct reads.
func (m *Market) Ledger() *ledger.Ledger {
	return m.ledger
}

// observe records the outcome of one operation.
func (m *Market) observe(op string, start time.Time, err error, fields log.Fields) {
	monitor.RecordOperation(op, err, time.Since(start))
	monitor.SetLedgerGauges(m.ledger.TotalHeld(), m.ledger.Pending())
	if err != nil {
		fields["op"] = op
		fields["err"] = err
		log.WithFields(fields).Warn("operation rejected")
	}
}

// withAttached debits value from caller for the duration of op and returns
// it if op fails. The caller holds mu.
func (m *Market) withAttached(ctx context.Context, caller common.Address, value *big.Int, op func() error) error {
	attached := value != nil && value.Sign() > 0
	if attached {
		if err := m.book.Debit(ctx, caller, value); err != nil {
			return err
		}
	}
	err := op()
	if err != nil && attached {
		if rerr := m.book.Deposit(ctx, caller, value); rerr != nil {
			log.WithFields(log.Fields{"caller": caller.Hex(), "amount": value.String(), "err": rerr}).
				Error("could not return attached value")
		}
	}
	return err
}

package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftmarket/database"
	"nftmarket/ledger"
	"nftmarket/registry"
	"nftmarket/wallet"
)

var (
	operator   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	collection = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	seller     = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	buyer      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	bidder     = common.HexToAddress("0x0000000000000000000000000000000000000c0c")
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// flakyJournal fails appends on demand, like a database that went away.
type flakyJournal struct {
	*database.Store
	fail bool
}

func (j *flakyJournal) Append(ctx context.Context, events []ledger.Event) error {
	if j.fail {
		return errors.New("database is locked")
	}
	return j.Store.Append(ctx, events)
}

type env struct {
	ctx     context.Context
	store   *database.Store
	journal *flakyJournal
	reg     *registry.Memory
	book    *wallet.Book
	clock   *clock
	market  *Market
}

func newEnv(t *testing.T) *env {
	store, err := database.Open(database.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	e := &env{
		ctx:     context.Background(),
		store:   store,
		journal: &flakyJournal{Store: store},
		reg:     registry.NewMemory(operator),
		clock:   &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	e.market = e.open(t)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, e.reg.Mint(collection, big.NewInt(i), seller))
	}
	e.reg.SetApprovalForAll(collection, seller, operator, true)
	return e
}

// open builds a market over the env's store and registry, as a restart does.
func (e *env) open(t *testing.T) *Market {
	e.book = wallet.NewBook()
	l, err := ledger.New(ledger.Config{Registry: e.reg, Payer: e.book, Journal: e.journal, Operator: operator})
	require.NoError(t, err)
	m, err := NewMarket(Config{Ledger: l, Book: e.book, Store: e.store, Now: e.clock.now, AllowDeposit: true})
	require.NoError(t, err)
	require.NoError(t, m.Restore(e.ctx))
	return m
}

func TestNewMarketRequiresParts(t *testing.T) {
	_, err := NewMarket(Config{})
	assert.Error(t, err)
}

func TestDepositDisabled(t *testing.T) {
	e := newEnv(t)
	e.market.allowDeposit = false
	_, err := e.market.Deposit(e.ctx, buyer, ether(1))
	assert.ErrorIs(t, err, ErrDepositDisabled)
}

func TestBuyMovesCustodialValue(t *testing.T) {
	e := newEnv(t)
	m := e.market
	_, err := m.Deposit(e.ctx, buyer, ether(5))
	require.NoError(t, err)

	id, err := m.List(e.ctx, seller, collection, big.NewInt(1), ether(2))
	require.NoError(t, err)
	assert.EqualValues(t, 0, id)

	err = m.Buy(e.ctx, buyer, id, ether(1))
	assert.ErrorIs(t, err, ledger.ErrWrongAmount)
	assert.Equal(t, ether(5).String(), string(m.Wallet(buyer).Balance), "failed buy must return the value")

	err = m.Buy(e.ctx, bidder, id, ether(2))
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	require.NoError(t, m.Buy(e.ctx, buyer, id, ether(2)))
	assert.Equal(t, ether(3).String(), string(m.Wallet(buyer).Balance))
	assert.Equal(t, ether(2).String(), string(m.Wallet(seller).Balance))
	assert.Equal(t, "2", m.Wallet(seller).BalanceEther)
	assert.EqualValues(t, 20, m.Points(buyer).Points)
	assert.EqualValues(t, 20, m.Points(seller).Points)

	res, err := m.GetListing(id)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, buyer.Hex(), res.Buyer)
	assert.NotZero(t, res.ClosedAt)

	_, err = m.GetListing(9)
	assert.ErrorIs(t, err, ErrNotFound)

	sales, err := m.FetchSales(e.ctx, database.Query{Buyer: buyer.Hex()}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sales.Total)
}

func TestAuctionFlow(t *testing.T) {
	e := newEnv(t)
	m := e.market
	_, _ = m.Deposit(e.ctx, buyer, ether(5))
	_, _ = m.Deposit(e.ctx, bidder, ether(5))

	id, err := m.StartAuction(e.ctx, seller, collection, big.NewInt(2), ether(1), time.Hour)
	require.NoError(t, err)
	require.NoError(t, m.Bid(e.ctx, buyer, id, ether(1)))
	assert.Equal(t, ether(4).String(), string(m.Wallet(buyer).Balance))

	err = m.Bid(e.ctx, bidder, id, ether(1))
	assert.ErrorIs(t, err, ledger.ErrBidTooLow)
	assert.Equal(t, ether(5).String(), string(m.Wallet(bidder).Balance))

	require.NoError(t, m.Bid(e.ctx, bidder, id, ether(3)))
	assert.Equal(t, ether(5).String(), string(m.Wallet(buyer).Balance), "outbid bidder refunded")

	res, err := m.GetAuction(id)
	require.NoError(t, err)
	assert.Equal(t, ether(3).String(), string(res.Held))
	assert.Equal(t, bidder.Hex(), res.HighestBidder)
	assert.EqualValues(t, 2, res.Bids)

	assert.Empty(t, m.Expired())
	assert.ErrorIs(t, m.End(e.ctx, id, buyer), ledger.ErrAuctionStillActive)

	e.clock.t = e.clock.t.Add(time.Hour)
	require.Len(t, m.Expired(), 1)
	require.NoError(t, m.End(e.ctx, id, buyer))

	owner, _ := e.reg.OwnerOf(e.ctx, collection, big.NewInt(2))
	assert.Equal(t, bidder, owner)
	assert.Equal(t, ether(3).String(), string(m.Wallet(seller).Balance))

	page, err := m.FetchAuctions(e.ctx, database.Query{State: "settled"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestWithdrawAfterRefusedRefund(t *testing.T) {
	e := newEnv(t)
	m := e.market
	_, _ = m.Deposit(e.ctx, buyer, ether(5))
	_, _ = m.Deposit(e.ctx, bidder, ether(5))
	id, _ := m.StartAuction(e.ctx, seller, collection, big.NewInt(3), ether(1), time.Hour)
	require.NoError(t, m.Bid(e.ctx, buyer, id, ether(1)))

	e.book.Refuse(buyer, true)
	require.NoError(t, m.Bid(e.ctx, bidder, id, ether(2)), "refused refund must not block the higher bid")
	assert.Equal(t, ether(1).String(), string(m.Wallet(buyer).Credit))

	_, err := m.Withdraw(e.ctx, buyer)
	assert.ErrorIs(t, err, ledger.ErrPaymentFailed)

	e.book.Refuse(buyer, false)
	res, err := m.Withdraw(e.ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, ether(1).String(), string(res.Amount))
	assert.Equal(t, ether(5).String(), string(m.Wallet(buyer).Balance))

	_, err = m.Withdraw(e.ctx, buyer)
	assert.True(t, errors.Is(err, ledger.ErrNothingToWithdraw))
}

func TestRestore(t *testing.T) {
	e := newEnv(t)
	m := e.market
	_, _ = m.Deposit(e.ctx, buyer, ether(5))
	lid, _ := m.List(e.ctx, seller, collection, big.NewInt(1), ether(1))
	require.NoError(t, m.Buy(e.ctx, buyer, lid, ether(1)))
	aid, _ := m.StartAuction(e.ctx, seller, collection, big.NewInt(2), ether(1), time.Hour)
	require.NoError(t, m.Bid(e.ctx, buyer, aid, ether(2)))

	restarted := e.open(t)
	assert.Equal(t, ether(2).String(), string(restarted.Wallet(buyer).Balance))
	assert.Equal(t, ether(1).String(), string(restarted.Wallet(seller).Balance))
	assert.EqualValues(t, 10, restarted.Points(buyer).Points)
	a, err := restarted.GetAuction(aid)
	require.NoError(t, err)
	assert.Equal(t, ether(2).String(), string(a.Held))

	// the restarted market keeps working where the old one stopped
	id, err := restarted.List(e.ctx, seller, collection, big.NewInt(3), ether(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
}

func TestRestartWithUnstoredEvents(t *testing.T) {
	e := newEnv(t)
	m := e.market
	_, err := m.Deposit(e.ctx, buyer, ether(5))
	require.NoError(t, err)
	aid, err := m.StartAuction(e.ctx, seller, collection, big.NewInt(2), ether(1), time.Hour)
	require.NoError(t, err)
	lid, err := m.List(e.ctx, seller, collection, big.NewInt(1), ether(1))
	require.NoError(t, err)

	e.journal.fail = true
	require.NoError(t, m.Bid(e.ctx, buyer, aid, ether(2)))
	require.NoError(t, m.Buy(e.ctx, buyer, lid, ether(1)))
	assert.Equal(t, ether(2).String(), string(m.Wallet(buyer).Balance))

	// deposits wait for the journal instead of storing half an operation
	_, err = m.Deposit(e.ctx, bidder, ether(1))
	assert.Error(t, err)

	// the process dies before the journal recovers: the unstored bid and
	// sale are gone and so are the debits that paid for them
	restarted := e.open(t)
	assert.Equal(t, ether(5).String(), string(restarted.Wallet(buyer).Balance))
	assert.Equal(t, "0", string(restarted.Wallet(seller).Balance))
	a, err := restarted.GetAuction(aid)
	require.NoError(t, err)
	assert.Equal(t, "0", string(a.Held))
	li, err := restarted.GetListing(lid)
	require.NoError(t, err)
	assert.True(t, li.Active)
}

func TestJournalRecoveryStoresBalances(t *testing.T) {
	e := newEnv(t)
	m := e.market
	_, _ = m.Deposit(e.ctx, buyer, ether(5))
	aid, _ := m.StartAuction(e.ctx, seller, collection, big.NewInt(2), ether(1), time.Hour)

	e.journal.fail = true
	require.NoError(t, m.Bid(e.ctx, buyer, aid, ether(2)))
	e.journal.fail = false
	require.NoError(t, m.Sync(e.ctx))
	assert.Zero(t, m.Ledger().Pending())

	restarted := e.open(t)
	assert.Equal(t, ether(3).String(), string(restarted.Wallet(buyer).Balance))
	a, err := restarted.GetAuction(aid)
	require.NoError(t, err)
	assert.Equal(t, ether(2).String(), string(a.Held))
}

func TestFundCreditsChainDeposits(t *testing.T) {
	e := newEnv(t)
	m := e.market
	d := wallet.Deposit{Tx: common.HexToHash("0xd1"), Block: 12, From: bidder, Amount: ether(4)}
	require.NoError(t, m.Fund(e.ctx, 12, []wallet.Deposit{d}))
	assert.Equal(t, ether(4).String(), string(m.Wallet(bidder).Balance))

	// a second credit of the same transaction is refused and taken back
	assert.Error(t, m.Fund(e.ctx, 13, []wallet.Deposit{d}))
	assert.Equal(t, ether(4).String(), string(m.Wallet(bidder).Balance))

	restarted := e.open(t)
	assert.Equal(t, ether(4).String(), string(restarted.Wallet(bidder).Balance))
	block, ok, err := restarted.FundedBlock(e.ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 12, block)
}

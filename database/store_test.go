package database

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nftmarket/ledger"
	"nftmarket/registry"
	"nftmarket/wallet"
)

var (
	market     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	collection = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	seller     = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	buyer      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	bidder     = common.HexToAddress("0x0000000000000000000000000000000000000c0c")

	start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func openTest(t *testing.T) *Store {
	s, err := Open(DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", false)
	assert.Error(t, err)
}

func TestJournalAndReadModels(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	reg := registry.NewMemory(market)
	book := wallet.NewBook()
	s.TrackBalances(book)
	l, err := ledger.New(ledger.Config{Registry: reg, Payer: book, Journal: s, Operator: market})
	require.NoError(t, err)

	for i := int64(1); i <= 2; i++ {
		require.NoError(t, reg.Mint(collection, big.NewInt(i), seller))
	}
	reg.SetApprovalForAll(collection, seller, market, true)

	lid, err := l.List(ctx, collection, big.NewInt(1), ether(1), seller, start)
	require.NoError(t, err)
	require.NoError(t, l.Buy(ctx, lid, ether(1), buyer, start))

	aid, err := l.Start(ctx, collection, big.NewInt(2), ether(1), time.Hour, seller, start)
	require.NoError(t, err)
	require.NoError(t, l.Bid(ctx, aid, ether(1), buyer, start))
	book.Refuse(buyer, true)
	require.NoError(t, l.Bid(ctx, aid, ether(2), bidder, start.Add(time.Minute)))
	require.NoError(t, l.End(ctx, aid, buyer, start.Add(time.Hour)))

	listings, total, err := s.Listings(ctx, Query{Seller: seller.Hex()}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.False(t, listings[0].Active)
	assert.Equal(t, buyer.Hex(), listings[0].Buyer)

	auctions, _, err := s.Auctions(ctx, Query{State: string(ledger.AuctionSettled)}, 1, 10)
	require.NoError(t, err)
	require.Len(t, auctions, 1)
	assert.Equal(t, "0", auctions[0].Held)
	assert.Equal(t, bidder.Hex(), auctions[0].HighestBidder)
	assert.EqualValues(t, 2, auctions[0].Bids)

	sales, total, err := s.Sales(ctx, Query{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "auction", sales[0].Kind)
	assert.EqualValues(t, 20, sales[0].Points)

	buyerSales, total, err := s.Sales(ctx, Query{Buyer: buyer.Hex()}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "listing", buyerSales[0].Kind)

	var points []struct {
		Address string
		Points  uint64
	}
	require.NoError(t, s.DB.Table("loyalty_accounts").Order("address").Find(&points).Error)
	got := map[string]uint64{}
	for _, p := range points {
		got[p.Address] = p.Points
	}
	assert.Equal(t, uint64(30), got[seller.Hex()])
	assert.Equal(t, uint64(10), got[buyer.Hex()])
	assert.Equal(t, uint64(20), got[bidder.Hex()])

	var credit struct{ Amount string }
	require.NoError(t, s.DB.Table("credits").Where("address = ?", buyer.Hex()).Take(&credit).Error)
	assert.Equal(t, ether(1).String(), credit.Amount)

	balances, err := s.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, ether(3).String(), balances[seller].String())

	// the journal rebuilds an identical ledger
	events, err := s.Events(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, l.Seq(), len(events))
	l2, err := ledger.New(ledger.Config{Registry: reg, Operator: market})
	require.NoError(t, err)
	require.NoError(t, l2.Replay(events))
	assert.Equal(t, l.Points(seller), l2.Points(seller))
	assert.Equal(t, 0, l.Credit(buyer).Cmp(l2.Credit(buyer)))
	a1, _ := l.Auction(aid)
	a2, _ := l2.Auction(aid)
	assert.True(t, a1.EndTime.Equal(a2.EndTime))
	assert.Equal(t, a1.State, a2.State)
}

func TestAppendSkipsStoredEvents(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	ev := ledger.Event{Seq: 1, Kind: ledger.EventCreditAccrued, At: start, To: buyer, Amount: ether(1)}

	require.NoError(t, s.Append(ctx, []ledger.Event{ev}))
	ev2 := ledger.Event{Seq: 2, Kind: ledger.EventCreditAccrued, At: start, To: buyer, Amount: ether(2)}
	require.NoError(t, s.Append(ctx, []ledger.Event{ev, ev2}))

	events, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	tail, err := s.EventsAfter(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.EqualValues(t, 2, tail[0].Seq)

	var credit struct{ Amount string }
	require.NoError(t, s.DB.Table("credits").Where("address = ?", buyer.Hex()).Take(&credit).Error)
	assert.Equal(t, ether(3).String(), credit.Amount)
}

func TestPaging(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	var events []ledger.Event
	for i := 0; i < 5; i++ {
		events = append(events, ledger.Event{
			Seq:        uint64(i + 1),
			Kind:       ledger.EventListed,
			At:         start,
			RecordID:   uint64(i),
			Collection: collection,
			TokenID:    big.NewInt(int64(i)),
			From:       seller,
			Amount:     ether(1),
		})
	}
	require.NoError(t, s.Append(ctx, events))

	rows, total, err := s.Listings(ctx, Query{}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 2, rows[0].ID)
	assert.EqualValues(t, 1, rows[1].ID)

	active := true
	_, total, err = s.Listings(ctx, Query{Active: &active, Collection: collection.Hex()}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

func TestBalancesCommitWithJournal(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	book := wallet.NewBook()
	s.TrackBalances(book)

	require.NoError(t, book.Deposit(ctx, buyer, ether(2)))
	balances, err := s.Balances(ctx)
	require.NoError(t, err)
	assert.Empty(t, balances, "balances stored before any commit")

	ev := ledger.Event{Seq: 1, Kind: ledger.EventCreditAccrued, At: start, To: seller, Amount: ether(1)}
	require.NoError(t, s.Append(ctx, []ledger.Event{ev}))
	balances, err = s.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, ether(2).String(), balances[buyer].String())
	assert.Empty(t, book.Unsaved())

	// a failed commit leaves the change unsaved for the next one
	require.NoError(t, book.Debit(ctx, buyer, ether(1)))
	err = s.commit(ctx, func(*gorm.DB) error { return errors.New("disk full") })
	require.Error(t, err)
	assert.Len(t, book.Unsaved(), 1)
	require.NoError(t, s.SyncBalances(ctx))
	balances, err = s.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, ether(1).String(), balances[buyer].String())
}

func TestCommitDeposits(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	book := wallet.NewBook()
	s.TrackBalances(book)

	_, ok, err := s.DepositCursor(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	d := wallet.Deposit{Tx: common.HexToHash("0x01"), Block: 7, From: buyer, Amount: ether(3)}
	require.NoError(t, book.Deposit(ctx, d.From, d.Amount))
	require.NoError(t, s.CommitDeposits(ctx, 9, []wallet.Deposit{d}))

	block, ok, err := s.DepositCursor(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 9, block)
	balances, err := s.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, ether(3).String(), balances[buyer].String())

	// the same transaction is never credited twice
	assert.Error(t, s.CommitDeposits(ctx, 10, []wallet.Deposit{d}))
	block, _, _ = s.DepositCursor(ctx)
	assert.EqualValues(t, 9, block)
}

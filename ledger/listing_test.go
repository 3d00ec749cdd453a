package ledger

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestListAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t)
	for i := int64(0); i < 3; i++ {
		tok := f.mint(i+1, seller)
		id, err := f.l.List(f.ctx, collection, tok, ether(1), seller, start)
		if err != nil {
			t.Fatal(err)
		}
		if id != uint64(i) {
			t.Errorf("listing id = %d, want %d", id, i)
		}
	}
}

func TestListRejects(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)

	if _, err := f.l.List(f.ctx, collection, tok, big.NewInt(0), seller, start); !errors.Is(err, ErrInvalidPrice) {
		t.Error("zero price:", err)
	}
	if _, err := f.l.List(f.ctx, collection, tok, big.NewInt(-1), seller, start); !errors.Is(err, ErrInvalidPrice) {
		t.Error("negative price:", err)
	}
	if _, err := f.l.List(f.ctx, collection, tok, ether(1), buyer, start); !errors.Is(err, ErrNotOwnerOrUnapproved) {
		t.Error("non-owner:", err)
	}
	if _, err := f.l.List(f.ctx, collection, big.NewInt(99), ether(1), seller, start); !errors.Is(err, ErrNotOwnerOrUnapproved) {
		t.Error("unknown token:", err)
	}

	unapproved := big.NewInt(2)
	_ = f.reg.Mint(collection, unapproved, buyer)
	if _, err := f.l.List(f.ctx, collection, unapproved, ether(1), buyer, start); !errors.Is(err, ErrNotOwnerOrUnapproved) {
		t.Error("unapproved:", err)
	}
	if err := f.reg.Approve(collection, unapproved, buyer, market); err != nil {
		t.Fatal(err)
	}
	if _, err := f.l.List(f.ctx, collection, unapproved, ether(1), buyer, start); err != nil {
		t.Error("per-token approval rejected:", err)
	}
}

func TestListTwiceRejected(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	if _, err := f.l.List(f.ctx, collection, tok, ether(1), seller, start); err != nil {
		t.Fatal(err)
	}
	if _, err := f.l.List(f.ctx, collection, tok, ether(2), seller, start); !errors.Is(err, ErrAlreadyListed) {
		t.Error("second listing:", err)
	}
	if _, err := f.l.Start(f.ctx, collection, tok, ether(1), time.Hour, seller, start); !errors.Is(err, ErrAlreadyListed) {
		t.Error("auction over a listing:", err)
	}
}

func TestBuy(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	id, err := f.l.List(f.ctx, collection, tok, ether(1), seller, start)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.l.Buy(f.ctx, id, ether(2), buyer, start); !errors.Is(err, ErrWrongAmount) {
		t.Error("overpay:", err)
	}
	if err := f.l.Buy(f.ctx, id, big.NewInt(1), buyer, start); !errors.Is(err, ErrWrongAmount) {
		t.Error("underpay:", err)
	}
	if f.owner(tok) != seller {
		t.Fatal("asset moved on a failed buy")
	}

	if err := f.l.Buy(f.ctx, id, ether(1), buyer, start); err != nil {
		t.Fatal(err)
	}
	if f.owner(tok) != buyer {
		t.Error("owner after buy:", f.owner(tok).Hex())
	}
	li, _ := f.l.Listing(id)
	if li.Active || li.Buyer != buyer {
		t.Errorf("listing after buy: %+v", li)
	}
	if f.book.Balance(seller).Cmp(ether(1)) != 0 {
		t.Error("seller proceeds:", f.book.Balance(seller))
	}
	if f.l.Points(seller) != 10 || f.l.Points(buyer) != 10 {
		t.Errorf("points seller=%d buyer=%d, want 10 each", f.l.Points(seller), f.l.Points(buyer))
	}

	if err := f.l.Buy(f.ctx, id, ether(1), stranger, start); !errors.Is(err, ErrListingInactive) {
		t.Error("second buy:", err)
	}
	if err := f.l.Buy(f.ctx, 42, ether(1), buyer, start); !errors.Is(err, ErrListingInactive) {
		t.Error("unknown listing:", err)
	}
}

func TestRelistAfterSale(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	id, _ := f.l.List(f.ctx, collection, tok, ether(1), seller, start)
	if err := f.l.Buy(f.ctx, id, ether(1), buyer, start); err != nil {
		t.Fatal(err)
	}
	f.reg.SetApprovalForAll(collection, buyer, market, true)
	id2, err := f.l.List(f.ctx, collection, tok, ether(3), buyer, start)
	if err != nil {
		t.Fatal(err)
	}
	if id2 != 1 {
		t.Error("relist id:", id2)
	}
}

func TestListSupersedesStaleListing(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	stale, _ := f.l.List(f.ctx, collection, tok, ether(1), seller, start)

	// the asset leaves the seller outside the market
	if err := f.reg.Transfer(f.ctx, collection, tok, seller, buyer); err != nil {
		t.Fatal(err)
	}
	f.reg.SetApprovalForAll(collection, buyer, market, true)

	if _, err := f.l.List(f.ctx, collection, tok, ether(2), buyer, start); err != nil {
		t.Fatal(err)
	}
	li, _ := f.l.Listing(stale)
	if li.Active {
		t.Error("stale listing still active")
	}
	if err := f.l.Buy(f.ctx, stale, ether(1), stranger, start); !errors.Is(err, ErrListingInactive) {
		t.Error("buy of superseded listing:", err)
	}
}

func TestBuyTransferFailure(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	id, _ := f.l.List(f.ctx, collection, tok, ether(1), seller, start)
	seq := f.l.Seq()

	f.reg.RefuseTransfers(true)
	if err := f.l.Buy(f.ctx, id, ether(1), buyer, start); !errors.Is(err, ErrTransferFailed) {
		t.Fatal("buy with failing registry:", err)
	}
	li, _ := f.l.Listing(id)
	if !li.Active || f.owner(tok) != seller || f.l.Points(buyer) != 0 || f.book.Balance(seller).Sign() != 0 {
		t.Error("state changed on failed transfer")
	}
	if f.l.Seq() != seq {
		t.Error("events emitted on failed transfer")
	}
}

func TestBuySellerRefusesPayment(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	id, _ := f.l.List(f.ctx, collection, tok, ether(1), seller, start)

	f.book.Refuse(seller, true)
	if err := f.l.Buy(f.ctx, id, ether(1), buyer, start); err != nil {
		t.Fatal(err)
	}
	if f.owner(tok) != buyer {
		t.Error("sale did not complete")
	}
	if f.l.Credit(seller).Cmp(ether(1)) != 0 {
		t.Error("seller credit:", f.l.Credit(seller))
	}

	f.book.Refuse(seller, false)
	got, err := f.l.Withdraw(f.ctx, seller, start)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(ether(1)) != 0 || f.book.Balance(seller).Cmp(ether(1)) != 0 {
		t.Error("withdrawn:", got, f.book.Balance(seller))
	}
	if _, err := f.l.Withdraw(f.ctx, seller, start); !errors.Is(err, ErrNothingToWithdraw) {
		t.Error("second withdraw:", err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	tok := f.mint(1, seller)
	id, _ := f.l.List(f.ctx, collection, tok, ether(1), seller, start)

	if err := f.l.Cancel(f.ctx, id, buyer, start); !errors.Is(err, ErrNotSeller) {
		t.Error("cancel by stranger:", err)
	}
	if err := f.l.Cancel(f.ctx, id, seller, start); err != nil {
		t.Fatal(err)
	}
	if f.owner(tok) != seller {
		t.Error("asset moved on cancel")
	}
	if err := f.l.Cancel(f.ctx, id, seller, start); !errors.Is(err, ErrListingInactive) {
		t.Error("second cancel:", err)
	}
	if err := f.l.Buy(f.ctx, id, ether(1), buyer, start); !errors.Is(err, ErrListingInactive) {
		t.Error("buy after cancel:", err)
	}
	if _, err := f.l.List(f.ctx, collection, tok, ether(1), seller, start); err != nil {
		t.Error("relist after cancel:", err)
	}
}

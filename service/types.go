package service

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"nftmarket/common/types"
	"nftmarket/common/utils"
	"nftmarket/ledger"
	"nftmarket/model"
)

// ErrRes interface error message returned
type ErrRes struct {
	ErrStr string `json:"err_str"` //Error message
}

// IDRes id of a new listing or auction
type IDRes struct {
	ID uint64 `json:"id"`
}

type ListingRes struct {
	ID         uint64       `json:"id"`
	Collection string       `json:"collection"`  //asset contract address
	TokenID    types.BigInt `json:"token_id"`    //asset token id
	Seller     string       `json:"seller"`      //seller address
	Price      types.BigInt `json:"price"`       //unit wei
	PriceEther string       `json:"price_ether"` //price in ether, for display
	Active     bool         `json:"active"`
	Buyer      string       `json:"buyer,omitempty"`     //buyer address once sold
	CreatedAt  int64        `json:"created_at"`          //unix seconds
	ClosedAt   int64        `json:"closed_at,omitempty"` //unix seconds
}

type AuctionRes struct {
	ID            uint64       `json:"id"`
	Collection    string       `json:"collection"`
	TokenID       types.BigInt `json:"token_id"`
	Seller        string       `json:"seller"`
	MinBid        types.BigInt `json:"min_bid"`     //unit wei
	HighestBid    types.BigInt `json:"highest_bid"` //unit wei, 0 before the first bid
	HighestEther  string       `json:"highest_ether"`
	HighestBidder string       `json:"highest_bidder,omitempty"`
	Bids          uint64       `json:"bids"`
	Held          types.BigInt `json:"held"`     //escrowed for this auction, unit wei
	EndTime       int64        `json:"end_time"` //unix seconds
	State         string       `json:"state"`    //active, settled or voided
	CreatedAt     int64        `json:"created_at"`
}

type ListingsRes struct {
	Total    int64           `json:"total"`
	Listings []model.Listing `json:"listings"`
}

type AuctionsRes struct {
	Total    int64           `json:"total"`
	Auctions []model.Auction `json:"auctions"`
}

type SalesRes struct {
	Total int64        `json:"total"`
	Sales []model.Sale `json:"sales"`
}

type PointsRes struct {
	Address   string       `json:"address"`
	Points    uint64       `json:"points"`
	UnitValue types.BigInt `json:"unit_value"` //wei per point
}

type WalletRes struct {
	Address      string       `json:"address"`
	Balance      types.BigInt `json:"balance"` //custodial balance, unit wei
	BalanceEther string       `json:"balance_ether"`
	Credit       types.BigInt `json:"credit"` //claimable by withdraw, unit wei
}

type WithdrawRes struct {
	Amount types.BigInt `json:"amount"` //paid out, unit wei
}

func address(a common.Address) string {
	if a == (common.Address{}) {
		return ""
	}
	return a.Hex()
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func listingRes(l ledger.Listing) *ListingRes {
	return &ListingRes{
		ID:         l.ID,
		Collection: l.Collection.Hex(),
		TokenID:    types.NewBigInt(l.TokenID),
		Seller:     l.Seller.Hex(),
		Price:      types.NewBigInt(l.Price),
		PriceEther: utils.WeiToEther(l.Price),
		Active:     l.Active,
		Buyer:      address(l.Buyer),
		CreatedAt:  unix(l.CreatedAt),
		ClosedAt:   unix(l.ClosedAt),
	}
}

func auctionRes(a ledger.Auction, held *big.Int) *AuctionRes {
	return &AuctionRes{
		ID:            a.ID,
		Collection:    a.Collection.Hex(),
		TokenID:       types.NewBigInt(a.TokenID),
		Seller:        a.Seller.Hex(),
		MinBid:        types.NewBigInt(a.MinBid),
		HighestBid:    types.NewBigInt(a.HighestBid),
		HighestEther:  utils.WeiToEther(a.HighestBid),
		HighestBidder: address(a.HighestBidder),
		Bids:          a.Bids,
		Held:          types.NewBigInt(held),
		EndTime:       a.EndTime.Unix(),
		State:         string(a.State),
		CreatedAt:     unix(a.CreatedAt),
	}
}

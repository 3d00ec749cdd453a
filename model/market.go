package model

// Event journal entry. Replaying all rows in seq order rebuilds the ledger.
type Event struct {
	Seq        uint64  `json:"seq" gorm:"primaryKey;autoIncrement:false"` //sequence number, contiguous from 1
	Kind       string  `json:"kind" gorm:"type:VARCHAR(24);index"`        //event kind
	Timestamp  int64   `json:"timestamp"`                                 //unix nanoseconds
	RecordID   uint64  `json:"record_id" gorm:"index"`                    //listing or auction id
	Collection string  `json:"collection" gorm:"type:CHAR(42)"`           //asset contract address
	TokenID    *string `json:"token_id"`                                  //asset token id
	From       string  `json:"from" gorm:"type:CHAR(42);index"`           //seller, bidder or paying side
	To         string  `json:"to" gorm:"type:CHAR(42);index"`             //buyer, winner or credited side
	Amount     *string `json:"amount"`                                    //amount, unit wei
	Deadline   int64   `json:"deadline"`                                  //auction end time, unix nanoseconds
	Points     uint64  `json:"points"`                                    //loyalty points earned by each party
}

// Listing fixed-price offer
type Listing struct {
	ID         uint64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Collection string `json:"collection" gorm:"type:CHAR(42);index"`
	TokenID    string `json:"token_id"`
	Seller     string `json:"seller" gorm:"type:CHAR(42);index"`
	Price      string `json:"price"`                      //unit wei
	Active     bool   `json:"active" gorm:"index"`        //open for purchase
	Buyer      string `json:"buyer" gorm:"type:CHAR(42)"` //empty until sold
	CreatedAt  int64  `json:"created_at"`                 //unix seconds
	ClosedAt   int64  `json:"closed_at"`                  //unix seconds, 0 while active
}

// Auction English auction
type Auction struct {
	ID            uint64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Collection    string `json:"collection" gorm:"type:CHAR(42);index"`
	TokenID       string `json:"token_id"`
	Seller        string `json:"seller" gorm:"type:CHAR(42);index"`
	MinBid        string `json:"min_bid"`                             //unit wei
	HighestBid    string `json:"highest_bid"`                         //unit wei
	HighestBidder string `json:"highest_bidder" gorm:"type:CHAR(42)"` //empty until the first bid
	Bids          uint64 `json:"bids"`                                //accepted bids
	Held          string `json:"held"`                                //escrowed value, unit wei
	EndTime       int64  `json:"end_time" gorm:"index"`               //unix seconds
	State         string `json:"state" gorm:"type:VARCHAR(8);index"`  //active, settled or voided
	CreatedAt     int64  `json:"created_at"`                          //unix seconds
}

// Sale completed direct or auction sale
type Sale struct {
	Seq        uint64 `json:"seq" gorm:"primaryKey;autoIncrement:false"` //journal seq of the sale event
	Kind       string `json:"kind" gorm:"type:VARCHAR(8);index"`         //listing or auction
	RecordID   uint64 `json:"record_id"`                                 //listing or auction id
	Collection string `json:"collection" gorm:"type:CHAR(42);index"`
	TokenID    string `json:"token_id"`
	Seller     string `json:"seller" gorm:"type:CHAR(42);index"`
	Buyer      string `json:"buyer" gorm:"type:CHAR(42);index"`
	Price      string `json:"price"`  //unit wei
	Points     uint64 `json:"points"` //points earned by each party
	Timestamp  int64  `json:"timestamp"`
}

// LoyaltyAccount points balance
type LoyaltyAccount struct {
	Address string `json:"address" gorm:"type:CHAR(42);primaryKey"`
	Points  uint64 `json:"points"`
}

// Credit claimable value left by failed payouts
type Credit struct {
	Address string `json:"address" gorm:"type:CHAR(42);primaryKey"`
	Amount  string `json:"amount"` //unit wei
}

// Balance custodial wallet balance
type Balance struct {
	Address string `json:"address" gorm:"type:CHAR(42);primaryKey"`
	Amount  string `json:"amount"` //unit wei
}

// Deposit native coin received by the operator on chain and credited to the sender
type Deposit struct {
	TxHash  string `json:"tx_hash" gorm:"type:CHAR(66);primaryKey"`
	Address string `json:"address" gorm:"type:CHAR(42);index"`
	Amount  string `json:"amount"` //unit wei
	Block   uint64 `json:"block" gorm:"index"`
}

// Cursor last chain block a scanner has processed
type Cursor struct {
	Name  string `json:"name" gorm:"type:VARCHAR(16);primaryKey"`
	Block uint64 `json:"block"`
}

package ledger

import "errors"

// Operation failures. Callers match them with errors.Is; the returned error
// wraps one of these with detail about the record involved.
var (
	ErrInvalidPrice         = errors.New("price must be > 0")
	ErrInvalidBid           = errors.New("min bid must be > 0")
	ErrInvalidDuration      = errors.New("duration must be > 0")
	ErrNotOwnerOrUnapproved = errors.New("caller is not the owner or the market is not approved")
	ErrListingInactive      = errors.New("listing is not active")
	ErrAuctionInactive      = errors.New("auction is not active")
	ErrAuctionStillActive   = errors.New("auction has not ended yet")
	ErrAlreadySettled       = errors.New("auction already settled")
	ErrWrongAmount          = errors.New("wrong amount")
	ErrBidTooLow            = errors.New("bid too low")
	ErrNotSeller            = errors.New("not seller")
	ErrTransferFailed       = errors.New("asset transfer failed")
	ErrAlreadyListed        = errors.New("asset already has an active listing or auction")
	ErrNothingToWithdraw    = errors.New("nothing to withdraw")
	ErrPaymentFailed        = errors.New("payment failed")
)

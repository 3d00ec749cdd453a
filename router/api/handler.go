package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"nftmarket/ledger"
	"nftmarket/middleware"
	"nftmarket/service"
	"nftmarket/wallet"
)

// Handler serves the market routes.
type Handler struct {
	market *service.Market
}

func NewHandler(market *service.Market) *Handler {
	return &Handler{market: market}
}

// errStatus maps an error to its response status
func errStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrInvalidBid),
		errors.Is(err, ledger.ErrInvalidDuration),
		errors.Is(err, ledger.ErrWrongAmount),
		errors.Is(err, ledger.ErrBidTooLow),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotOwnerOrUnapproved),
		errors.Is(err, ledger.ErrNotSeller),
		errors.Is(err, service.ErrDepositDisabled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrListingInactive),
		errors.Is(err, ledger.ErrAuctionInactive),
		errors.Is(err, ledger.ErrAuctionStillActive),
		errors.Is(err, ledger.ErrAlreadySettled),
		errors.Is(err, ledger.ErrAlreadyListed),
		errors.Is(err, ledger.ErrNothingToWithdraw):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrTransferFailed),
		errors.Is(err, ledger.ErrPaymentFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), service.ErrRes{ErrStr: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
}

// pathID parses the :id segment
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: "id must be a non-negative integer"})
		return 0, false
	}
	return id, true
}

// caller is set by the auth middleware on every signed route
func caller(c *gin.Context) (common.Address, bool) {
	addr, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, service.ErrRes{ErrStr: "request is not signed"})
	}
	return addr, ok
}

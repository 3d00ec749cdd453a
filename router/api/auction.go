package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nftmarket/common/types"
	"nftmarket/common/utils"
	"nftmarket/service"
)

func Auction(e *gin.Engine, h *Handler, signed ...gin.HandlerFunc) {
	e.GET("/auction/page", h.pageAuction)
	e.GET("/auction/:id", h.getAuction)
	g := e.Group("/auction", signed...)
	g.POST("", h.start)
	g.POST("/:id/bid", h.bid)
	g.POST("/:id/end", h.end)
}

type startReq struct {
	Collection string       `json:"collection" binding:"required"`
	TokenID    types.BigInt `json:"token_id" binding:"required"`
	MinBid     types.BigInt `json:"min_bid" binding:"required"`  //unit wei
	Duration   int64        `json:"duration" binding:"required"` //seconds
}

type bidReq struct {
	Amount types.BigInt `json:"amount" binding:"required"` //unit wei
}

// @Tags         auction
// @Summary      start an auction
// @Description  Starts an English auction for an owned asset, ending duration seconds from now.
// @Accept       json
// @Produce      json
// @Param        X-Address    header    string        true  "caller address"
// @Param        X-Timestamp  header    string        true  "unix seconds"
// @Param        X-Signature  header    string        true  "personal-sign signature"
// @Param        body         body      api.startReq  true  "auction"
// @Success      200          {object}  service.IDRes
// @Failure      400          {object}  service.ErrRes
// @Failure      403          {object}  service.ErrRes
// @Failure      409          {object}  service.ErrRes
// @Router       /auction [post]
func (h *Handler) start(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	collection, err := utils.ParseAddress(req.Collection)
	if err != nil {
		badRequest(c, err)
		return
	}
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		badRequest(c, err)
		return
	}
	minBid, err := req.MinBid.Int()
	if err != nil {
		badRequest(c, err)
		return
	}
	if req.Duration > int64(365*24*time.Hour/time.Second) {
		badRequest(c, errors.New("duration must be at most one year"))
		return
	}

	id, err := h.market.StartAuction(c.Request.Context(), from, collection, tokenID, minBid, time.Duration(req.Duration)*time.Second)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.IDRes{ID: id})
}

// @Tags         auction
// @Summary      bid on an auction
// @Description  Escrows amount out of the caller's custodial balance. The previous highest bidder is refunded.
// @Accept       json
// @Produce      json
// @Param        id           path      int         true  "auction id"
// @Param        X-Address    header    string      true  "caller address"
// @Param        X-Timestamp  header    string      true  "unix seconds"
// @Param        X-Signature  header    string      true  "personal-sign signature"
// @Param        body         body      api.bidReq  true  "bid"
// @Success      200          {object}  service.AuctionRes
// @Failure      400          {object}  service.ErrRes
// @Failure      409          {object}  service.ErrRes
// @Router       /auction/{id}/bid [post]
func (h *Handler) bid(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req bidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := req.Amount.Int()
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.market.Bid(c.Request.Context(), from, id, amount); err != nil {
		fail(c, err)
		return
	}
	h.respondAuction(c, id)
}

// @Tags         auction
// @Summary      end an auction
// @Description  Settles an auction past its end time, or voids it when nobody bid. Anyone may end an auction.
// @Produce      json
// @Param        id           path      int     true  "auction id"
// @Param        X-Address    header    string  true  "caller address"
// @Param        X-Timestamp  header    string  true  "unix seconds"
// @Param        X-Signature  header    string  true  "personal-sign signature"
// @Success      200          {object}  service.AuctionRes
// @Failure      409          {object}  service.ErrRes
// @Failure      502          {object}  service.ErrRes
// @Router       /auction/{id}/end [post]
func (h *Handler) end(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.market.End(c.Request.Context(), id, from); err != nil {
		fail(c, err)
		return
	}
	h.respondAuction(c, id)
}

// @Tags         auction
// @Summary      query an auction
// @Description  Live state of an auction by id, with the value held in escrow for it
// @Produce      json
// @Param        id   path      int  true  "auction id"
// @Success      200  {object}  service.AuctionRes
// @Failure      404  {object}  service.ErrRes
// @Router       /auction/{id} [get]
func (h *Handler) getAuction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondAuction(c, id)
}

func (h *Handler) respondAuction(c *gin.Context, id uint64) {
	res, err := h.market.GetAuction(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags         auction
// @Summary      query auction list
// @Description  Auctions in reverse order of creation
// @Produce      json
// @Param        seller      query     string  false  "seller address, empty for all"
// @Param        collection  query     string  false  "asset contract address, empty for all"
// @Param        state       query     string  false  "active, settled or voided, empty for all"
// @Param        page        query     string  false  "Page, default 1"
// @Param        page_size   query     string  false  "Page size, default 10"
// @Success      200         {object}  service.AuctionsRes
// @Failure      400         {object}  service.ErrRes
// @Router       /auction/page [get]
func (h *Handler) pageAuction(c *gin.Context) {
	req := struct {
		Page       *int   `form:"page"`
		PageSize   *int   `form:"page_size"`
		Seller     string `form:"seller"`
		Collection string `form:"collection"`
		State      string `form:"state"`
	}{}
	err := c.BindQuery(&req)
	if err != nil {
		badRequest(c, err)
		return
	}
	page, size, err := utils.ParsePage(req.Page, req.PageSize)
	if err != nil {
		badRequest(c, err)
		return
	}
	switch req.State {
	case "", "active", "settled", "voided":
	default:
		badRequest(c, errors.New("state must be active, settled or voided"))
		return
	}
	q, err := query(req.Seller, "", req.Collection)
	if err != nil {
		badRequest(c, err)
		return
	}
	q.State = req.State

	res, err := h.market.FetchAuctions(c.Request.Context(), q, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

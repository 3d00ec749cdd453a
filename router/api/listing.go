package api

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	"nftmarket/common/types"
	"nftmarket/common/utils"
	"nftmarket/database"
	"nftmarket/service"
)

func Listing(e *gin.Engine, h *Handler, signed ...gin.HandlerFunc) {
	e.GET("/listing/page", h.pageListing)
	e.GET("/listing/:id", h.getListing)
	g := e.Group("/listing", signed...)
	g.POST("", h.list)
	g.POST("/:id/buy", h.buy)
	g.POST("/:id/cancel", h.cancel)
}

type listReq struct {
	Collection string       `json:"collection" binding:"required"` //asset contract address
	TokenID    types.BigInt `json:"token_id" binding:"required"`
	Price      types.BigInt `json:"price" binding:"required"` //unit wei
}

// @Tags         listing
// @Summary      list an asset
// @Description  Offers an owned asset at a fixed price. The market operator must be approved for the asset.
// @Accept       json
// @Produce      json
// @Param        X-Address    header    string          true  "caller address"
// @Param        X-Timestamp  header    string          true  "unix seconds"
// @Param        X-Signature  header    string          true  "personal-sign signature"
// @Param        body         body      api.listReq     true  "listing"
// @Success      200          {object}  service.IDRes
// @Failure      400          {object}  service.ErrRes
// @Failure      403          {object}  service.ErrRes
// @Failure      409          {object}  service.ErrRes
// @Router       /listing [post]
func (h *Handler) list(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	var req listReq
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
	price, err := req.Price.Int()
	if err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.market.List(c.Request.Context(), from, collection, tokenID, price)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.IDRes{ID: id})
}

// @Tags         listing
// @Summary      buy a listing
// @Description  Pays the exact price out of the caller's custodial balance. The asset moves to the caller and the seller is paid.
// @Accept       json
// @Produce      json
// @Param        id           path      int             true  "listing id"
// @Param        X-Address    header    string          true  "caller address"
// @Param        X-Timestamp  header    string          true  "unix seconds"
// @Param        X-Signature  header    string          true  "personal-sign signature"
// @Param        body         body      api.buyReq      true  "attached value"
// @Success      200          {object}  service.ListingRes
// @Failure      400          {object}  service.ErrRes
// @Failure      409          {object}  service.ErrRes
// @Failure      502          {object}  service.ErrRes
// @Router       /listing/{id}/buy [post]
func (h *Handler) buy(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req buyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	paid, err := req.Paid.Int()
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.market.Buy(c.Request.Context(), from, id, paid); err != nil {
		fail(c, err)
		return
	}
	h.respondListing(c, id)
}

type buyReq struct {
	Paid types.BigInt `json:"paid" binding:"required"` //unit wei, must equal the price
}

// @Tags         listing
// @Summary      cancel a listing
// @Description  Closes an active listing. Only the seller may cancel.
// @Produce      json
// @Param        id           path      int     true  "listing id"
// @Param        X-Address    header    string  true  "caller address"
// @Param        X-Timestamp  header    string  true  "unix seconds"
// @Param        X-Signature  header    string  true  "personal-sign signature"
// @Success      200          {object}  service.ListingRes
// @Failure      403          {object}  service.ErrRes
// @Failure      409          {object}  service.ErrRes
// @Router       /listing/{id}/cancel [post]
func (h *Handler) cancel(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.market.Cancel(c.Request.Context(), from, id); err != nil {
		fail(c, err)
		return
	}
	h.respondListing(c, id)
}

// @Tags         listing
// @Summary      query a listing
// @Description  Live state of a listing by id
// @Produce      json
// @Param        id   path      int  true  "listing id"
// @Success      200  {object}  service.ListingRes
// @Failure      404  {object}  service.ErrRes
// @Router       /listing/{id} [get]
func (h *Handler) getListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondListing(c, id)
}

func (h *Handler) respondListing(c *gin.Context, id uint64) {
	res, err := h.market.GetListing(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags         listing
// @Summary      query listing list
// @Description  Listings in reverse order of creation
// @Produce      json
// @Param        seller      query     string  false  "seller address, empty for all"
// @Param        collection  query     string  false  "asset contract address, empty for all"
// @Param        active      query     bool    false  "only open (true) or only closed (false) listings"
// @Param        page        query     string  false  "Page, default 1"
// @Param        page_size   query     string  false  "Page size, default 10"
// @Success      200         {object}  service.ListingsRes
// @Failure      400         {object}  service.ErrRes
// @Router       /listing/page [get]
func (h *Handler) pageListing(c *gin.Context) {
	req := struct {
		Page       *int   `form:"page"`
		PageSize   *int   `form:"page_size"`
		Seller     string `form:"seller"`
		Collection string `form:"collection"`
		Active     *bool  `form:"active"`
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
	q, err := query(req.Seller, "", req.Collection)
	if err != nil {
		badRequest(c, err)
		return
	}
	q.Active = req.Active

	res, err := h.market.FetchListings(c.Request.Context(), q, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseTokenID(v types.BigInt) (*big.Int, error) {
	id, err := v.Int()
	if err != nil {
		return nil, err
	}
	if id.Sign() < 0 {
		return nil, errors.New("token_id must not be negative")
	}
	return id, nil
}

// query checks and normalizes the address filters of a page request
func query(seller, buyer, collection string) (database.Query, error) {
	var q database.Query
	for _, f := range []struct {
		in  string
		out *string
	}{{seller, &q.Seller}, {buyer, &q.Buyer}, {collection, &q.Collection}} {
		if f.in == "" {
			continue
		}
		addr, err := utils.ParseAddress(f.in)
		if err != nil {
			return q, err
		}
		*f.out = addr.Hex()
	}
	return q, nil
}

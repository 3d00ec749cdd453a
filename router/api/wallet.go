package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nftmarket/common/utils"
)

func Wallet(e *gin.Engine, h *Handler, signed ...gin.HandlerFunc) {
	e.GET("/wallet/:addr", h.getWallet)
	g := e.Group("/wallet", signed...)
	g.POST("/deposit", h.deposit)
	g.POST("/withdraw", h.withdraw)
}

// @Tags         wallet
// @Summary      query a wallet
// @Description  Custodial balance and claimable credit of an address
// @Produce      json
// @Param        addr  path      string  true  "address"
// @Success      200   {object}  service.WalletRes
// @Failure      400   {object}  service.ErrRes
// @Router       /wallet/{addr} [get]
func (h *Handler) getWallet(c *gin.Context) {
	addr, err := utils.ParseAddress(c.Param("addr"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.market.Wallet(addr))
}

// @Tags         wallet
// @Summary      deposit
// @Description  Credits the caller's custodial balance. Only enabled on local deployments.
// @Accept       json
// @Produce      json
// @Param        X-Address    header    string      true  "caller address"
// @Param        X-Timestamp  header    string      true  "unix seconds"
// @Param        X-Signature  header    string      true  "personal-sign signature"
// @Param        body         body      api.bidReq  true  "amount"
// @Success      200          {object}  service.WalletRes
// @Failure      400          {object}  service.ErrRes
// @Failure      403          {object}  service.ErrRes
// @Router       /wallet/deposit [post]
func (h *Handler) deposit(c *gin.Context) {
	from, ok := caller(c)
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
	res, err := h.market.Deposit(c.Request.Context(), from, amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags         wallet
// @Summary      withdraw credit
// @Description  Pays out the value left to the caller by refunds or proceeds that could not be delivered
// @Produce      json
// @Param        X-Address    header    string  true  "caller address"
// @Param        X-Timestamp  header    string  true  "unix seconds"
// @Param        X-Signature  header    string  true  "personal-sign signature"
// @Success      200          {object}  service.WithdrawRes
// @Failure      409          {object}  service.ErrRes
// @Failure      502          {object}  service.ErrRes
// @Router       /wallet/withdraw [post]
func (h *Handler) withdraw(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	res, err := h.market.Withdraw(c.Request.Context(), from)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

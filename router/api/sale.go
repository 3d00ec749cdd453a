package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nftmarket/common/utils"
)

func Sale(e *gin.Engine, h *Handler) {
	e.GET("/sale/page", h.pageSale)
}

// @Tags         sale
// @Summary      query sale list
// @Description  Completed direct and auction sales, newest first
// @Produce      json
// @Param        seller      query     string  false  "seller address, empty for all"
// @Param        buyer       query     string  false  "buyer address, empty for all"
// @Param        collection  query     string  false  "asset contract address, empty for all"
// @Param        page        query     string  false  "Page, default 1"
// @Param        page_size   query     string  false  "Page size, default 10"
// @Success      200         {object}  service.SalesRes
// @Failure      400         {object}  service.ErrRes
// @Router       /sale/page [get]
func (h *Handler) pageSale(c *gin.Context) {
	req := struct {
		Page       *int   `form:"page"`
		PageSize   *int   `form:"page_size"`
		Seller     string `form:"seller"`
		Buyer      string `form:"buyer"`
		Collection string `form:"collection"`
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
	q, err := query(req.Seller, req.Buyer, req.Collection)
	if err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.market.FetchSales(c.Request.Context(), q, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nftmarket/common/utils"
)

func Loyalty(e *gin.Engine, h *Handler) {
	e.GET("/loyalty/:addr", h.getPoints)
}

// @Tags         loyalty
// @Summary      query loyalty points
// @Description  Points earned by an address across all completed sales, as buyer or seller
// @Produce      json
// @Param        addr  path      string  true  "address"
// @Success      200   {object}  service.PointsRes
// @Failure      400   {object}  service.ErrRes
// @Router       /loyalty/{addr} [get]
func (h *Handler) getPoints(c *gin.Context) {
	addr, err := utils.ParseAddress(c.Param("addr"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.market.Points(addr))
}

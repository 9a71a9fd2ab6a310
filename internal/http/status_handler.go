package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/price-engine/internal/http/httputil"
	"github.com/hxuan190/price-engine/internal/pricing"
)

type StatusHandler struct {
	engine *pricing.Engine
}

func NewStatusHandler(engine *pricing.Engine) *StatusHandler {
	return &StatusHandler{engine: engine}
}

func (h *StatusHandler) SetRoutes(pub *gin.RouterGroup) {
	pub.GET("", h.getStatus)
}

func (h *StatusHandler) Root() string {
	return "/status"
}

// @Summary Pricing engine status
// @Description End-to-end probe: prices the quote-currency token against itself for one unit.
// @Tags status
// @Produce json
// @Success 200 {object} pricing.HealthStatus
// @Router /api/v1/status [get]
func (h *StatusHandler) getStatus(c *gin.Context) {
	httputil.HandleSuccess(c, h.engine.Health(c.Request.Context()))
}

package http

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/price-engine/internal/common"
	"github.com/hxuan190/price-engine/internal/domain"
	"github.com/hxuan190/price-engine/internal/http/httputil"
	"github.com/hxuan190/price-engine/internal/pricing"
)

type PriceHandler struct {
	engine *pricing.Engine
}

func NewPriceHandler(engine *pricing.Engine) *PriceHandler {
	return &PriceHandler{engine: engine}
}

func (h *PriceHandler) SetRoutes(pub *gin.RouterGroup) {
	pub.GET("", h.getPrice)
	pub.POST("/batch", h.getBatchPrices)
}

func (h *PriceHandler) Root() string {
	return "/price"
}

// PriceResponse is the fiat-equivalent value of a token amount
type PriceResponse struct {
	// Token mint address (Solana base58 public key)
	TokenAddress string `json:"tokenAddress" example:"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"`

	// Whole token units the price was computed for
	AmountRequested float64 `json:"amountRequested" example:"1"`

	// Quote currency per whole token unit
	PricePerUnit float64 `json:"pricePerUnit" example:"0.000012"`

	// PricePerUnit multiplied by the requested amount
	TotalValue float64 `json:"totalValue" example:"0.000012"`

	// Strategy that produced the price
	Strategy string `json:"strategy" enums:"direct_quote,sol_bridge,relaxed_slippage" example:"direct_quote"`

	// Coarse trust label derived from the strategy
	Confidence string `json:"confidence" enums:"high,medium,low" example:"high"`

	// Slippage tolerance the successful quote was requested with
	SlippageBps int `json:"slippageBps" example:"50"`

	Timestamp string `json:"timestamp" example:"2026-08-29T12:00:00Z"`
}

func toPriceResponse(q *domain.PriceQuote) PriceResponse {
	return PriceResponse{
		TokenAddress:    q.TokenAddress,
		AmountRequested: q.AmountRequested,
		PricePerUnit:    q.PricePerUnit,
		TotalValue:      q.TotalValue,
		Strategy:        string(q.Strategy),
		Confidence:      string(q.Confidence),
		SlippageBps:     q.SlippageBps,
		Timestamp:       q.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// @Summary Get token price
// @Description Resolve the quote-currency price of a token through the strategy cascade (direct quote, SOL bridge, relaxed slippage).
// @Tags price
// @Produce json
// @Param address query string true "Token mint address (base58)" example("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
// @Param amount query number false "Amount in whole token units" default(1)
// @Success 200 {object} PriceResponse
// @Failure 400 {object} httputil.Response "Invalid address or amount"
// @Failure 404 {object} httputil.Response "No liquidity route found"
// @Router /api/v1/price [get]
func (h *PriceHandler) getPrice(c *gin.Context) {
	address := c.Query("address")

	amount := 1.0
	if raw := c.Query("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.HandleBadRequest(c, "invalid amount: must be a number")
			return
		}
		amount = parsed
	}

	quote, err := h.engine.GetPrice(c.Request.Context(), address, amount)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	httputil.HandleSuccess(c, toPriceResponse(quote))
}

// BatchPriceRequest carries up to the configured maximum of items
type BatchPriceRequest struct {
	Items []pricing.BatchItem `json:"items" binding:"required"`
}

// BatchItemResponse is one per-item outcome; a failing item never
// aborts the rest of the batch
type BatchItemResponse struct {
	Address    string         `json:"address"`
	Success    bool           `json:"success"`
	Data       *PriceResponse `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

type BatchPriceResponse struct {
	Items   []BatchItemResponse  `json:"items"`
	Summary pricing.BatchSummary `json:"summary"`
}

// @Summary Get prices for a batch of tokens
// @Description Resolve up to 10 token prices sequentially with inter-item pacing. Per-item failures are reported inline.
// @Tags price
// @Accept json
// @Produce json
// @Param request body BatchPriceRequest true "Batch items"
// @Success 200 {object} BatchPriceResponse
// @Failure 400 {object} httputil.Response "Empty or oversized batch"
// @Router /api/v1/price/batch [post]
func (h *PriceHandler) getBatchPrices(c *gin.Context) {
	var req BatchPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	results, summary, err := h.engine.GetPrices(c.Request.Context(), req.Items)
	if err != nil && len(results) == 0 {
		writeEngineError(c, err)
		return
	}

	items := make([]BatchItemResponse, 0, len(results))
	for _, r := range results {
		item := BatchItemResponse{Address: r.Address}
		if r.Err != nil {
			item.Error = r.Err.Error()
			var pe *common.PricingError
			if errors.As(r.Err, &pe) {
				item.Suggestion = pe.Suggestion
			}
		} else {
			item.Success = true
			resp := toPriceResponse(r.Quote)
			item.Data = &resp
		}
		items = append(items, item)
	}

	httputil.HandleSuccess(c, BatchPriceResponse{Items: items, Summary: summary})
}

func writeEngineError(c *gin.Context, err error) {
	var pe *common.PricingError
	switch {
	case common.IsValidation(err):
		httputil.HandleBadRequest(c, err.Error())
	case errors.As(err, &pe):
		httputil.HandleNoRoute(c, pe.Error(), pe.Suggestion)
	default:
		httputil.HandleBadGateway(c, err.Error())
	}
}

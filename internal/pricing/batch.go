package pricing

import (
	"context"

	"github.com/hxuan190/price-engine/internal/common"
	"github.com/hxuan190/price-engine/internal/domain"
)

// BatchItem is one entry of a batch price request.
type BatchItem struct {
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

// BatchItemResult carries the per-item outcome; exactly one of Quote
// and Err is set.
type BatchItemResult struct {
	Address string
	Quote   *domain.PriceQuote
	Err     error
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Requested  int     `json:"requested"`
	Succeeded  int     `json:"succeeded"`
	Failed     int     `json:"failed"`
	TotalValue float64 `json:"totalValue"`
}

// GetPrices resolves a batch of tokens strictly sequentially with a
// fixed inter-item delay, so rate-limited upstream services see one
// cascade at a time. A failing item never aborts the remaining items;
// only context cancellation does.
func (e *Engine) GetPrices(ctx context.Context, items []BatchItem) ([]BatchItemResult, BatchSummary, error) {
	if len(items) == 0 {
		return nil, BatchSummary{}, common.ErrValidation("batch must contain at least one item")
	}
	if len(items) > e.cfg.BatchMax {
		return nil, BatchSummary{}, common.ErrValidation("batch size %d exceeds maximum of %d", len(items), e.cfg.BatchMax)
	}

	results := make([]BatchItemResult, 0, len(items))
	summary := BatchSummary{Requested: len(items)}

	for i, item := range items {
		amount := item.Amount
		if amount == 0 {
			amount = 1
		}

		quote, err := e.GetPrice(ctx, item.Address, amount)
		if err != nil {
			summary.Failed++
			results = append(results, BatchItemResult{Address: item.Address, Err: err})
		} else {
			summary.Succeeded++
			summary.TotalValue += quote.TotalValue
			results = append(results, BatchItemResult{Address: item.Address, Quote: quote})
		}

		if i < len(items)-1 {
			if err := e.batchSleep(ctx, e.cfg.BatchDelay); err != nil {
				return results, summary, err
			}
		}
	}

	return results, summary, nil
}

// HealthStatus is the outcome of an end-to-end engine probe.
type HealthStatus struct {
	Resolvable  bool               `json:"resolvable"`
	SampleQuote *domain.PriceQuote `json:"sampleQuote,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Health probes the full pricing path by pricing the quote-currency
// token against itself for one unit.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	quote, err := e.GetPrice(ctx, e.cfg.QuoteMint, 1)
	if err != nil {
		return HealthStatus{Resolvable: false, Error: err.Error()}
	}
	return HealthStatus{Resolvable: true, SampleQuote: quote}
}

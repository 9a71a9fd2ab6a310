package pricing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/hxuan190/price-engine/internal/httpclient"
)

// QuoteRequest describes one swap-quote lookup against the quote
// service. Amount is in the input token's smallest units.
type QuoteRequest struct {
	InputMint        string
	OutputMint       string
	Amount           uint64
	SlippageBps      int
	OnlyDirectRoutes bool
}

// Quoter is the engine's view of the quote service; tests substitute a
// counting double.
type Quoter interface {
	Quote(ctx context.Context, req QuoteRequest) (uint64, error)
}

// quoteResponse is the subset of the quote service's answer the engine
// needs. Amount fields arrive as decimal strings.
type quoteResponse struct {
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
}

// QuoteClient calls a Jupiter-style quote API over the resilient HTTP
// client, so each call already absorbs transient network retries.
type QuoteClient struct {
	client  *httpclient.Client
	baseURL string
	logger  zerolog.Logger
}

func NewQuoteClient(logger zerolog.Logger, client *httpclient.Client, baseURL string) *QuoteClient {
	return &QuoteClient{
		client:  client,
		baseURL: baseURL,
		logger:  logger.With().Str("module", "quote_client").Logger(),
	}
}

// Quote returns the output amount in the output token's smallest units.
// A response without a positive outAmount is a failed call for the
// requesting strategy, never a panic on shape mismatch.
func (q *QuoteClient) Quote(ctx context.Context, req QuoteRequest) (uint64, error) {
	query := url.Values{}
	query.Set("inputMint", req.InputMint)
	query.Set("outputMint", req.OutputMint)
	query.Set("amount", strconv.FormatUint(req.Amount, 10))
	query.Set("slippageBps", strconv.Itoa(req.SlippageBps))
	if req.OnlyDirectRoutes {
		query.Set("onlyDirectRoutes", "true")
	}

	var resp quoteResponse
	if err := q.client.GetJSON(ctx, q.baseURL+"/quote", query, &resp); err != nil {
		return 0, err
	}

	out, err := strconv.ParseUint(resp.OutAmount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quote response carried no usable outAmount (%q)", resp.OutAmount)
	}
	if out == 0 {
		return 0, fmt.Errorf("quote returned zero output for %s -> %s", req.InputMint, req.OutputMint)
	}
	return out, nil
}

package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/price-engine/internal/cache"
	"github.com/hxuan190/price-engine/internal/common"
	"github.com/hxuan190/price-engine/internal/config"
	"github.com/hxuan190/price-engine/internal/domain"
)

var logger = zerolog.Nop()

const (
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	solMint  = "So11111111111111111111111111111111111111112"
	bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

func testConfig() *config.PricingConfig {
	return &config.PricingConfig{
		QuoteAPIURL:        "http://localhost",
		CatalogURL:         "http://localhost",
		QuoteMint:          usdcMint,
		QuoteDecimals:      6,
		NativeMint:         solMint,
		NativeDecimals:     9,
		DirectSlippageBps:  50,
		BridgeSlippageBps:  100,
		RelaxedSlippageBps: []int{100, 200, 500},
		BatchMax:           10,
		BatchDelay:         200 * time.Millisecond,
	}
}

// stubResolver answers every address with fixed-decimals metadata.
type stubResolver struct {
	decimals uint8
}

func (s stubResolver) Resolve(_ context.Context, address string) domain.TokenMetadata {
	return domain.TokenMetadata{
		Address:  address,
		Name:     "Test Token",
		Symbol:   "TST",
		Decimals: s.decimals,
		Source:   domain.SourceCatalog,
	}
}

// stubQuoter records every request and delegates to fn.
type stubQuoter struct {
	calls []QuoteRequest
	fn    func(req QuoteRequest) (uint64, error)
}

func (s *stubQuoter) Quote(_ context.Context, req QuoteRequest) (uint64, error) {
	s.calls = append(s.calls, req)
	return s.fn(req)
}

func newTestEngine(quoter *stubQuoter, decimals uint8) *Engine {
	e := NewEngine(logger, stubResolver{decimals: decimals}, quoter, nil, testConfig())
	e.batchSleep = func(ctx context.Context, d time.Duration) error { return nil }
	return e
}

func TestGetPriceValidation(t *testing.T) {
	quoter := &stubQuoter{fn: func(QuoteRequest) (uint64, error) { return 1, nil }}
	e := newTestEngine(quoter, 6)
	ctx := context.Background()

	cases := []struct {
		name    string
		address string
		amount  float64
	}{
		{"empty address", "", 1},
		{"invalid base58", "not-a-valid-mint!!", 1},
		{"zero amount", bonkMint, 0},
		{"negative amount", bonkMint, -3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.GetPrice(ctx, tc.address, tc.amount)
			require.Error(t, err)
			assert.True(t, common.IsValidation(err))
		})
	}
	assert.Empty(t, quoter.calls, "validation failures must not reach the network")
}

func TestGetPriceDirectQuote(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) {
		return 5_000_000, nil // 5.0 in quote units
	}}
	e := newTestEngine(quoter, 6)

	quote, err := e.GetPrice(context.Background(), bonkMint, 2)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyDirectQuote, quote.Strategy)
	assert.Equal(t, domain.ConfidenceHigh, quote.Confidence)
	assert.Equal(t, 50, quote.SlippageBps)
	assert.InDelta(t, 5.0, quote.TotalValue, 1e-9)
	assert.InDelta(t, 2.5, quote.PricePerUnit, 1e-9)
	assert.Equal(t, 2.0, quote.AmountRequested)
	assert.False(t, quote.Timestamp.IsZero())

	require.Len(t, quoter.calls, 1)
	call := quoter.calls[0]
	assert.Equal(t, bonkMint, call.InputMint)
	assert.Equal(t, usdcMint, call.OutputMint)
	assert.Equal(t, uint64(2_000_000), call.Amount)
	assert.False(t, call.OnlyDirectRoutes)
}

func TestGetPriceFallsBackToSolBridge(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) {
		// Direct conversion from the token has no route; both bridge legs do.
		if req.InputMint == bonkMint && req.OutputMint == usdcMint {
			return 0, errors.New("no route")
		}
		if req.OutputMint == solMint {
			return 10_000_000, nil // 0.01 SOL
		}
		return 1_500_000, nil // 1.5 in quote units
	}}
	e := newTestEngine(quoter, 5)

	quote, err := e.GetPrice(context.Background(), bonkMint, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategySolBridge, quote.Strategy)
	assert.Equal(t, domain.ConfidenceMedium, quote.Confidence)
	assert.Equal(t, 100, quote.SlippageBps)
	assert.InDelta(t, 1.5, quote.TotalValue, 1e-9)

	require.Len(t, quoter.calls, 3)
	assert.Equal(t, solMint, quoter.calls[1].OutputMint)
	assert.Equal(t, 100, quoter.calls[1].SlippageBps)
	assert.Equal(t, solMint, quoter.calls[2].InputMint)
	assert.Equal(t, uint64(10_000_000), quoter.calls[2].Amount, "second leg spends the first leg's output")
	assert.Equal(t, 50, quoter.calls[2].SlippageBps)
}

func TestGetPriceRelaxedSlippageWidensStageByStage(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) {
		if req.OnlyDirectRoutes && req.SlippageBps == 500 {
			return 900_000, nil
		}
		return 0, errors.New("no route")
	}}
	e := newTestEngine(quoter, 6)

	quote, err := e.GetPrice(context.Background(), bonkMint, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyRelaxedSlippage, quote.Strategy)
	assert.Equal(t, domain.ConfidenceLow, quote.Confidence)
	assert.Equal(t, 500, quote.SlippageBps)

	// direct, bridge leg one, then the three relaxed stages in order.
	require.Len(t, quoter.calls, 5)
	var relaxed []int
	for _, call := range quoter.calls {
		if call.OnlyDirectRoutes {
			relaxed = append(relaxed, call.SlippageBps)
		}
	}
	assert.Equal(t, []int{100, 200, 500}, relaxed)
}

func TestGetPriceRelaxedTightStageKeepsMediumConfidence(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) {
		if req.OnlyDirectRoutes {
			return 990_000, nil
		}
		return 0, errors.New("no route")
	}}
	e := newTestEngine(quoter, 6)

	quote, err := e.GetPrice(context.Background(), bonkMint, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyRelaxedSlippage, quote.Strategy)
	assert.Equal(t, 100, quote.SlippageBps)
	assert.Equal(t, domain.ConfidenceMedium, quote.Confidence)
}

func TestGetPriceExhaustedCascade(t *testing.T) {
	quoter := &stubQuoter{fn: func(QuoteRequest) (uint64, error) {
		return 0, errors.New("no route")
	}}
	e := newTestEngine(quoter, 6)

	_, err := e.GetPrice(context.Background(), bonkMint, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route found")

	var pe *common.PricingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, bonkMint, pe.Token)
	assert.NotEmpty(t, pe.Suggestion)
}

func TestGetPriceQuoteCurrencySelfQuote(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) {
		return req.Amount, nil // identity conversion
	}}
	e := newTestEngine(quoter, 6)

	quote, err := e.GetPrice(context.Background(), usdcMint, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, quote.PricePerUnit, 1e-9)
	assert.InDelta(t, 1.0, quote.TotalValue, 1e-9)
}

func TestGetPriceSubUnitAmountNeverReachesNetwork(t *testing.T) {
	quoter := &stubQuoter{fn: func(QuoteRequest) (uint64, error) { return 1, nil }}
	e := newTestEngine(quoter, 0) // zero decimals: 0.4 is below one base unit

	_, err := e.GetPrice(context.Background(), bonkMint, 0.4)
	require.Error(t, err)
	assert.True(t, common.IsPricing(err))
	assert.Empty(t, quoter.calls)
}

func TestGetPricesMixedBatch(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) {
		return 2_000_000, nil // 2.0 per item
	}}
	e := newTestEngine(quoter, 6)

	var sleeps int
	e.batchSleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		assert.Equal(t, 200*time.Millisecond, d)
		return nil
	}

	items := []BatchItem{
		{Address: bonkMint, Amount: 1},
		{Address: "bogus-address", Amount: 1},
		{Address: solMint}, // zero amount defaults to one unit
	}
	results, summary, err := e.GetPrices(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.True(t, common.IsValidation(results[1].Err), "a bad item fails inline without aborting the batch")
	require.NoError(t, results[2].Err)
	assert.Equal(t, 1.0, results[2].Quote.AmountRequested)

	assert.Equal(t, BatchSummary{Requested: 3, Succeeded: 2, Failed: 1, TotalValue: 4.0}, summary)
	assert.Len(t, quoter.calls, 2)
	assert.Equal(t, 2, sleeps, "pacing delay runs between items, not after the last")
}

func TestGetPricesSizeLimits(t *testing.T) {
	quoter := &stubQuoter{fn: func(QuoteRequest) (uint64, error) { return 1, nil }}
	e := newTestEngine(quoter, 6)
	ctx := context.Background()

	_, _, err := e.GetPrices(ctx, nil)
	assert.True(t, common.IsValidation(err))

	oversized := make([]BatchItem, 11)
	for i := range oversized {
		oversized[i] = BatchItem{Address: bonkMint, Amount: 1}
	}
	_, _, err = e.GetPrices(ctx, oversized)
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
	assert.Contains(t, err.Error(), "exceeds maximum of 10")
	assert.Empty(t, quoter.calls)
}

func TestGetPricesStopsOnCancelledContext(t *testing.T) {
	quoter := &stubQuoter{fn: func(QuoteRequest) (uint64, error) { return 1_000_000, nil }}
	e := newTestEngine(quoter, 6)
	e.batchSleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }

	items := []BatchItem{
		{Address: bonkMint, Amount: 1},
		{Address: solMint, Amount: 1},
	}
	results, summary, err := e.GetPrices(context.Background(), items)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1, "partial results are returned on cancellation")
	assert.Equal(t, 1, summary.Succeeded)
}

func TestHealth(t *testing.T) {
	quoter := &stubQuoter{fn: func(req QuoteRequest) (uint64, error) { return req.Amount, nil }}
	e := newTestEngine(quoter, 6)

	status := e.Health(context.Background())
	assert.True(t, status.Resolvable)
	require.NotNil(t, status.SampleQuote)
	assert.InDelta(t, 1.0, status.SampleQuote.PricePerUnit, 1e-9)

	failing := newTestEngine(&stubQuoter{fn: func(QuoteRequest) (uint64, error) {
		return 0, errors.New("down")
	}}, 6)
	status = failing.Health(context.Background())
	assert.False(t, status.Resolvable)
	assert.NotEmpty(t, status.Error)
}

func TestRecentQuoteCacheIsWriteOnly(t *testing.T) {
	recent := cache.NewWithTTL[string, domain.PriceQuote](16, time.Hour)
	var outs []uint64
	quoter := &stubQuoter{fn: func(QuoteRequest) (uint64, error) {
		out := uint64(1_000_000 * (len(outs) + 1))
		outs = append(outs, out)
		return out, nil
	}}
	e := NewEngine(logger, stubResolver{decimals: 6}, quoter, recent, testConfig())

	first, err := e.GetPrice(context.Background(), bonkMint, 1)
	require.NoError(t, err)
	second, err := e.GetPrice(context.Background(), bonkMint, 1)
	require.NoError(t, err)

	// Each request quotes live; the cache only snapshots the latest result.
	assert.NotEqual(t, first.TotalValue, second.TotalValue)
	cached, ok := recent.Get(fmt.Sprintf("%s:%s", bonkMint, domain.StrategyDirectQuote))
	require.True(t, ok)
	assert.Equal(t, second.TotalValue, cached.TotalValue)
}

func TestSmallestUnits(t *testing.T) {
	units, err := smallestUnits(1.5, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000), units)

	// Floors rather than rounds.
	units, err = smallestUnits(0.0000019, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), units)

	_, err = smallestUnits(0.4, 0)
	assert.Error(t, err)
}

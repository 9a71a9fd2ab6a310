// Package pricing implements the price resolution engine: an ordered
// cascade of quoting strategies (direct quote, SOL-bridged conversion,
// relaxed-slippage retry) over a Jupiter-style quote service, with a
// confidence label derived from whichever strategy produced the result.
package pricing

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/price-engine/internal/cache"
	"github.com/hxuan190/price-engine/internal/common"
	"github.com/hxuan190/price-engine/internal/config"
	"github.com/hxuan190/price-engine/internal/domain"
	"github.com/hxuan190/price-engine/internal/metrics"
)

// MetadataResolver is the engine's view of token metadata resolution.
// It never fails; unresolvable tokens come back as fallback records.
type MetadataResolver interface {
	Resolve(ctx context.Context, address string) domain.TokenMetadata
}

type Engine struct {
	resolver MetadataResolver
	quoter   Quoter
	recent   *cache.LRU[string, domain.PriceQuote]
	cfg      *config.PricingConfig
	logger   zerolog.Logger

	// batchSleep is swapped out in tests to avoid real pacing delays.
	batchSleep func(ctx context.Context, d time.Duration) error
}

func NewEngine(logger zerolog.Logger, resolver MetadataResolver, quoter Quoter, recent *cache.LRU[string, domain.PriceQuote], cfg *config.PricingConfig) *Engine {
	return &Engine{
		resolver:   resolver,
		quoter:     quoter,
		recent:     recent,
		cfg:        cfg,
		logger:     logger.With().Str("module", "pricing").Logger(),
		batchSleep: sleepCtx,
	}
}

// strategyFn attempts one pricing strategy. A nil error means the
// cascade stops; any error means fall through to the next strategy.
type strategyFn func(ctx context.Context, meta domain.TokenMetadata, amount float64) (*domain.PriceQuote, error)

// GetPrice resolves the quote-currency value of amount whole units of
// the given token. Strategies run strictly in order; the first success
// wins. Validation failures never reach the network.
func (e *Engine) GetPrice(ctx context.Context, address string, amount float64) (*domain.PriceQuote, error) {
	if err := validateRequest(address, amount); err != nil {
		return nil, err
	}

	meta := e.resolver.Resolve(ctx, address)

	strategies := []struct {
		name domain.Strategy
		run  strategyFn
	}{
		{domain.StrategyDirectQuote, e.directQuote},
		{domain.StrategySolBridge, e.solBridge},
		{domain.StrategyRelaxedSlippage, e.relaxedSlippage},
	}

	for _, s := range strategies {
		start := time.Now()
		quote, err := s.run(ctx, meta, amount)
		if err != nil {
			metrics.StrategyFailures.WithLabelValues(string(s.name)).Inc()
			metrics.PriceRequests.WithLabelValues(string(s.name), "miss").Inc()
			e.logger.Debug().Err(err).Str("strategy", string(s.name)).Str("address", address).Msg("pricing strategy failed; trying next")
			continue
		}

		metrics.PriceRequests.WithLabelValues(string(s.name), "ok").Inc()
		metrics.PriceResolutionDuration.WithLabelValues(string(s.name)).Observe(time.Since(start).Seconds())

		// Advisory snapshot of the last successful quote per strategy.
		// Deliberately never read before quoting: price is time-sensitive,
		// so every request stays live.
		if e.recent != nil {
			e.recent.Set(address+":"+string(s.name), *quote)
		}
		return quote, nil
	}

	metrics.PriceRequests.WithLabelValues("none", "exhausted").Inc()
	return nil, common.ErrNoRoute(address)
}

func validateRequest(address string, amount float64) error {
	if address == "" {
		return common.ErrValidation("token address must not be empty")
	}
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return common.ErrValidation("invalid token address %q: %v", address, err)
	}
	if amount <= 0 {
		return common.ErrValidation("amount must be positive, got %v", amount)
	}
	return nil
}

// directQuote converts the token straight into the quote currency with
// multi-hop routing allowed at the tightest slippage tolerance.
func (e *Engine) directQuote(ctx context.Context, meta domain.TokenMetadata, amount float64) (*domain.PriceQuote, error) {
	units, err := smallestUnits(amount, meta.Decimals)
	if err != nil {
		return nil, err
	}

	out, err := e.quoter.Quote(ctx, QuoteRequest{
		InputMint:   meta.Address,
		OutputMint:  e.cfg.QuoteMint,
		Amount:      units,
		SlippageBps: e.cfg.DirectSlippageBps,
	})
	if err != nil {
		return nil, err
	}

	return e.buildQuote(meta.Address, amount, out, domain.StrategyDirectQuote, domain.ConfidenceHigh, e.cfg.DirectSlippageBps), nil
}

// solBridge prices through the native asset in two hops: token -> SOL
// at the bridge tolerance, then SOL -> quote currency with the direct
// mechanics. Both legs must succeed.
func (e *Engine) solBridge(ctx context.Context, meta domain.TokenMetadata, amount float64) (*domain.PriceQuote, error) {
	units, err := smallestUnits(amount, meta.Decimals)
	if err != nil {
		return nil, err
	}

	nativeOut, err := e.quoter.Quote(ctx, QuoteRequest{
		InputMint:   meta.Address,
		OutputMint:  e.cfg.NativeMint,
		Amount:      units,
		SlippageBps: e.cfg.BridgeSlippageBps,
	})
	if err != nil {
		return nil, fmt.Errorf("bridge leg token->native: %w", err)
	}

	quoteOut, err := e.quoter.Quote(ctx, QuoteRequest{
		InputMint:   e.cfg.NativeMint,
		OutputMint:  e.cfg.QuoteMint,
		Amount:      nativeOut,
		SlippageBps: e.cfg.DirectSlippageBps,
	})
	if err != nil {
		return nil, fmt.Errorf("bridge leg native->quote: %w", err)
	}

	return e.buildQuote(meta.Address, amount, quoteOut, domain.StrategySolBridge, domain.ConfidenceMedium, e.cfg.BridgeSlippageBps), nil
}

// relaxedSlippage retries the direct conversion restricted to
// single-hop routes, widening the tolerance stage by stage.
func (e *Engine) relaxedSlippage(ctx context.Context, meta domain.TokenMetadata, amount float64) (*domain.PriceQuote, error) {
	units, err := smallestUnits(amount, meta.Decimals)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, bps := range e.cfg.RelaxedSlippageBps {
		out, err := e.quoter.Quote(ctx, QuoteRequest{
			InputMint:        meta.Address,
			OutputMint:       e.cfg.QuoteMint,
			Amount:           units,
			SlippageBps:      bps,
			OnlyDirectRoutes: true,
		})
		if err != nil {
			lastErr = err
			continue
		}

		confidence := domain.ConfidenceLow
		if bps <= 100 {
			confidence = domain.ConfidenceMedium
		}
		return e.buildQuote(meta.Address, amount, out, domain.StrategyRelaxedSlippage, confidence, bps), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no relaxed slippage stages configured")
	}
	return nil, lastErr
}

func (e *Engine) buildQuote(address string, amount float64, quoteUnits uint64, strategy domain.Strategy, confidence domain.Confidence, slippageBps int) *domain.PriceQuote {
	total := fromSmallestUnits(quoteUnits, e.cfg.QuoteDecimals)
	return &domain.PriceQuote{
		TokenAddress:    address,
		AmountRequested: amount,
		PricePerUnit:    total / amount,
		TotalValue:      total,
		Strategy:        strategy,
		Confidence:      confidence,
		SlippageBps:     slippageBps,
		Timestamp:       time.Now(),
	}
}

// smallestUnits converts a whole-unit amount to the token's integer
// base unit: floor(amount * 10^decimals).
func smallestUnits(amount float64, decimals uint8) (uint64, error) {
	d := decimal.NewFromFloat(amount).Shift(int32(decimals)).Floor()
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %v is below one smallest unit at %d decimals", amount, decimals)
	}
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("amount %v exceeds the representable range at %d decimals", amount, decimals)
	}
	return bi.Uint64(), nil
}

func fromSmallestUnits(units uint64, decimals uint8) float64 {
	f, _ := decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals)).Float64()
	return f
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

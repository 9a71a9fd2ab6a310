package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hxuan190/price-engine/internal/common"
)

// PricingConfig holds every knob of the price resolution engine: the
// external service endpoints, the quote/native asset identities, the
// slippage tolerances per cascade stage, and the retry/cache windows.
type PricingConfig struct {
	QuoteAPIURL     string
	CatalogURL      string
	TokenMetaURLs   []string // tried in order by the metadata resolver
	SnapshotPath    string

	QuoteMint     string
	QuoteDecimals uint8
	NativeMint    string
	NativeDecimals uint8

	CatalogTTL    time.Duration
	PriceCacheTTL time.Duration

	RequestTimeout time.Duration
	Retries        uint
	RetryBackoff   time.Duration

	DirectSlippageBps  int
	BridgeSlippageBps  int
	RelaxedSlippageBps []int

	BatchMax   int
	BatchDelay time.Duration
}

func (pc *PricingConfig) Load() error {
	pc.QuoteAPIURL = envOrDefault("QUOTE_API_URL", "https://quote-api.jup.ag/v6")
	pc.CatalogURL = envOrDefault("TOKEN_CATALOG_URL", "https://token.jup.ag/strict")
	pc.TokenMetaURLs = splitList(envOrDefault("TOKEN_META_URLS", ""))
	pc.SnapshotPath = envOrDefault("SNAPSHOT_PATH", "./data/price-engine.db")

	pc.QuoteMint = envOrDefault("QUOTE_MINT", common.USDCMint.String())
	pc.QuoteDecimals = envUint8("QUOTE_DECIMALS", common.USDCDecimals)
	pc.NativeMint = envOrDefault("NATIVE_MINT", common.WrappedSOLMint.String())
	pc.NativeDecimals = envUint8("NATIVE_DECIMALS", common.SOLDecimals)

	pc.CatalogTTL = envDuration("CATALOG_TTL", time.Hour)
	pc.PriceCacheTTL = envDuration("PRICE_CACHE_TTL", time.Hour)

	pc.RequestTimeout = envDuration("REQUEST_TIMEOUT", 15*time.Second)
	pc.Retries = uint(envInt("HTTP_RETRIES", 3))
	pc.RetryBackoff = envDuration("RETRY_BACKOFF", 2*time.Second)

	pc.DirectSlippageBps = envInt("DIRECT_SLIPPAGE_BPS", 50)
	pc.BridgeSlippageBps = envInt("BRIDGE_SLIPPAGE_BPS", 100)
	pc.RelaxedSlippageBps = splitBpsList(envOrDefault("RELAXED_SLIPPAGE_BPS", "100,200,500"))

	pc.BatchMax = envInt("BATCH_MAX", 10)
	pc.BatchDelay = envDuration("BATCH_DELAY", 200*time.Millisecond)

	return pc.Validate()
}

func (pc *PricingConfig) Validate() error {
	if pc.QuoteAPIURL == "" || pc.CatalogURL == "" {
		return errors.New("invalid pricing config: quote and catalog endpoints are required")
	}
	if pc.QuoteMint == "" || pc.NativeMint == "" {
		return errors.New("invalid pricing config: quote and native mints are required")
	}
	if len(pc.RelaxedSlippageBps) == 0 {
		return errors.New("invalid pricing config: at least one relaxed slippage stage is required")
	}
	if pc.BatchMax < 1 {
		return errors.New("invalid pricing config: batch max must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitBpsList(raw string) []int {
	var out []int
	for _, p := range splitList(raw) {
		bps, err := strconv.Atoi(p)
		if err != nil || bps <= 0 {
			continue
		}
		out = append(out, bps)
	}
	return out
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(envOrDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

func envUint8(key string, def uint8) uint8 {
	v := envInt(key, int(def))
	if v < 0 || v > 255 {
		return def
	}
	return uint8(v)
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(envOrDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

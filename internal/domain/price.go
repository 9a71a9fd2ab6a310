package domain

import "time"

// Strategy identifies which pricing strategy produced a quote.
type Strategy string

const (
	StrategyDirectQuote     Strategy = "direct_quote"
	StrategySolBridge       Strategy = "sol_bridge"
	StrategyRelaxedSlippage Strategy = "relaxed_slippage"
)

// Confidence is a coarse trust label derived from the producing strategy.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PriceQuote is the result of a single price resolution. PricePerUnit is
// expressed in quote currency per whole token unit.
type PriceQuote struct {
	TokenAddress    string     `json:"tokenAddress"`
	AmountRequested float64    `json:"amountRequested"`
	PricePerUnit    float64    `json:"pricePerUnit"`
	TotalValue      float64    `json:"totalValue"`
	Strategy        Strategy   `json:"strategy"`
	Confidence      Confidence `json:"confidence"`
	SlippageBps     int        `json:"slippageBps"`
	Timestamp       time.Time  `json:"timestamp"`
}

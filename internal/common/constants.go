package common

import "github.com/gagliardetto/solana-go"

var (
	// USDCMint is the default quote currency (6 decimals).
	USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	// WrappedSOLMint is the chain's native asset (9 decimals), used as
	// the intermediate leg in bridged pricing.
	WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

const (
	USDCDecimals = 6
	SOLDecimals  = 9
)

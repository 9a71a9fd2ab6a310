package catalog

import "github.com/hxuan190/price-engine/internal/domain"

// defaultTokens is the embedded fallback list used when the live catalog
// fetch fails and no previous catalog is in memory. It keeps the engine
// partially functional offline: the quote currency, the native asset,
// and a handful of widely traded tokens.
var defaultTokens = []domain.TokenMetadata{
	{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Name: "USD Coin", Symbol: "USDC", Decimals: 6, Source: domain.SourceCatalog},
	{Address: "So11111111111111111111111111111111111111112", Name: "Wrapped SOL", Symbol: "SOL", Decimals: 9, Source: domain.SourceCatalog},
	{Address: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Name: "USDT", Symbol: "USDT", Decimals: 6, Source: domain.SourceCatalog},
	{Address: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Name: "Jupiter", Symbol: "JUP", Decimals: 6, Source: domain.SourceCatalog},
	{Address: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Name: "Bonk", Symbol: "BONK", Decimals: 5, Source: domain.SourceCatalog},
	{Address: "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R", Name: "Raydium", Symbol: "RAY", Decimals: 6, Source: domain.SourceCatalog},
	{Address: "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So", Name: "Marinade staked SOL", Symbol: "mSOL", Decimals: 9, Source: domain.SourceCatalog},
	{Address: "jtojtomepa8beP8AuQc6eXt5FriJwfFMwQx2v2f9mCL", Name: "Jito", Symbol: "JTO", Decimals: 9, Source: domain.SourceCatalog},
	{Address: "HZ1JovNiVvGrGNiiYvEozEVgZ58xaU3RKwX8eACQBCt3", Name: "Pyth Network", Symbol: "PYTH", Decimals: 6, Source: domain.SourceCatalog},
	{Address: "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm", Name: "dogwifhat", Symbol: "WIF", Decimals: 6, Source: domain.SourceCatalog},
}

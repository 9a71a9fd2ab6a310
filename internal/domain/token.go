package domain

// MetadataSource records which stage of the resolution cascade produced
// a token record.
type MetadataSource string

const (
	SourceCatalog  MetadataSource = "catalog"
	SourceOnChain  MetadataSource = "on-chain"
	SourceFallback MetadataSource = "fallback"
)

// FallbackDecimals is assumed when a token's decimal precision cannot be
// resolved from any source. Most SPL tokens use 6.
const FallbackDecimals = 6

// TokenMetadata describes a fungible token. Records are immutable once
// resolved; a fresh catalog fetch replaces them wholesale.
type TokenMetadata struct {
	Address  string         `json:"address"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
	Source   MetadataSource `json:"source"`
}

// FallbackMetadata returns the synthetic record used when every
// resolution stage comes up empty.
func FallbackMetadata(address string) TokenMetadata {
	return TokenMetadata{
		Address:  address,
		Name:     "Unknown Token",
		Symbol:   "UNK",
		Decimals: FallbackDecimals,
		Source:   SourceFallback,
	}
}

// Package metadata resolves a token address to name/symbol/decimals
// through a cascade of sources. Resolution never fails outward: when
// every source comes up empty it degrades to a fallback record so the
// pricing cascade can always proceed with best-effort decimals.
package metadata

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/hxuan190/price-engine/internal/cache"
	"github.com/hxuan190/price-engine/internal/catalog"
	"github.com/hxuan190/price-engine/internal/domain"
	"github.com/hxuan190/price-engine/internal/httpclient"
	"github.com/hxuan190/price-engine/internal/metrics"
)

type Resolver struct {
	cache    *cache.LRU[string, domain.TokenMetadata]
	catalog  *catalog.Catalog
	client   *httpclient.Client
	metaURLs []string // on-chain metadata endpoints, tried in order
	logger   zerolog.Logger
}

func NewResolver(logger zerolog.Logger, tokenCache *cache.LRU[string, domain.TokenMetadata], cat *catalog.Catalog, client *httpclient.Client, metaURLs []string) *Resolver {
	return &Resolver{
		cache:    tokenCache,
		catalog:  cat,
		client:   client,
		metaURLs: metaURLs,
		logger:   logger.With().Str("module", "metadata").Logger(),
	}
}

// Resolve returns metadata for address, trying cache, catalog, then the
// configured on-chain endpoints. Every outcome is cached, fallback
// included, so repeated lookups for an unresolvable address stay local
// for the rest of the session.
func (r *Resolver) Resolve(ctx context.Context, address string) domain.TokenMetadata {
	if meta, ok := r.cache.Get(address); ok {
		metrics.MetadataCacheHits.Inc()
		return meta
	}
	metrics.MetadataCacheMisses.Inc()

	if meta, ok := r.catalog.Lookup(ctx, address); ok {
		r.cache.Set(address, meta)
		return meta
	}

	if meta, ok := r.queryEndpoints(ctx, address); ok {
		r.cache.Set(address, meta)
		return meta
	}

	metrics.MetadataFallbacks.Inc()
	r.logger.Debug().Str("address", address).Msg("metadata unresolvable; using fallback record")
	fallback := domain.FallbackMetadata(address)
	r.cache.Set(address, fallback)
	return fallback
}

// tokenMetaResponse covers the two shapes metadata endpoints answer
// with: flat fields or the same fields under a data envelope. Decimals
// is a pointer so an absent field is distinguishable from zero.
type tokenMetaResponse struct {
	Name     string             `json:"name"`
	Symbol   string             `json:"symbol"`
	Decimals *uint8             `json:"decimals"`
	Data     *tokenMetaResponse `json:"data"`
}

func (r *Resolver) queryEndpoints(ctx context.Context, address string) (domain.TokenMetadata, bool) {
	for _, endpoint := range r.metaURLs {
		var resp tokenMetaResponse
		err := r.client.GetJSON(ctx, endpoint, url.Values{"address": {address}}, &resp)
		if err != nil {
			r.logger.Debug().Err(err).Str("endpoint", endpoint).Str("address", address).Msg("metadata endpoint query failed")
			continue
		}

		body := &resp
		if resp.Data != nil {
			body = resp.Data
		}
		// A field absence is a failed call for this endpoint, not an error.
		if body.Decimals == nil || (body.Name == "" && body.Symbol == "") {
			continue
		}

		meta := domain.TokenMetadata{
			Address:  address,
			Name:     body.Name,
			Symbol:   body.Symbol,
			Decimals: *body.Decimals,
			Source:   domain.SourceOnChain,
		}
		if meta.Name == "" {
			meta.Name = meta.Symbol
		}
		if meta.Symbol == "" {
			meta.Symbol = meta.Name
		}
		return meta, true
	}
	return domain.TokenMetadata{}, false
}

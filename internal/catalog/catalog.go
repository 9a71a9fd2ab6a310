// Package catalog owns the list of known tokens: fetching it from the
// primary catalog source, serving search and paged listing over it, and
// keeping both the in-memory index and the durable snapshot current.
package catalog

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hxuan190/price-engine/internal/cache"
	"github.com/hxuan190/price-engine/internal/common"
	"github.com/hxuan190/price-engine/internal/domain"
	"github.com/hxuan190/price-engine/internal/httpclient"
	"github.com/hxuan190/price-engine/internal/metrics"
)

const (
	DefaultSearchLimit = 10
	DefaultPageSize    = 50
	MaxPageSize        = 500
)

// Pagination describes one page of the catalog listing.
type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
	Pages    int  `json:"pages"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrev"`
}

type Config struct {
	URL string
	TTL time.Duration
}

// Catalog caches the token list for a freshness window and refreshes it
// through a single-flight group so concurrent refresh triggers collapse
// into one upstream fetch.
type Catalog struct {
	client *httpclient.Client
	cache  *cache.LRU[string, domain.TokenMetadata]
	store  *SnapshotStore // nil disables persistence
	url    string
	ttl    time.Duration
	logger zerolog.Logger

	mu        sync.RWMutex
	tokens    []domain.TokenMetadata
	byAddress map[string]domain.TokenMetadata
	fetchedAt time.Time

	refresh singleflight.Group
}

func New(logger zerolog.Logger, client *httpclient.Client, tokenCache *cache.LRU[string, domain.TokenMetadata], store *SnapshotStore, cfg Config) *Catalog {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Catalog{
		client: client,
		cache:  tokenCache,
		store:  store,
		url:    cfg.URL,
		ttl:    cfg.TTL,
		logger: logger.With().Str("module", "catalog").Logger(),
	}
}

// Bootstrap seeds the catalog from the durable snapshot, if one exists.
// The seed always populates the metadata cache; only a snapshot younger
// than the freshness window counts toward staleness, so an old snapshot
// still triggers a live fetch on first use.
func (c *Catalog) Bootstrap(ctx context.Context) {
	if c.store == nil {
		return
	}
	capturedAt, tokens, err := c.store.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("snapshot load failed; starting cold")
		return
	}
	if len(tokens) == 0 {
		return
	}

	fetchedAt := capturedAt
	if time.Since(capturedAt) > c.ttl {
		// Informative-only seed: keep the tokens but leave the catalog stale.
		fetchedAt = time.Time{}
	}
	c.install(tokens, fetchedAt)
	c.logger.Info().Int("tokens", len(tokens)).Time("captured_at", capturedAt).Bool("fresh", !fetchedAt.IsZero()).Msg("catalog seeded from snapshot")
}

// Load returns the catalog, fetching it first when absent or stale.
func (c *Catalog) Load(ctx context.Context) ([]domain.TokenMetadata, error) {
	c.mu.RLock()
	fresh := !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) <= c.ttl && len(c.tokens) > 0
	tokens := c.tokens
	c.mu.RUnlock()

	if fresh {
		return tokens, nil
	}

	v, err, _ := c.refresh.Do("catalog", func() (interface{}, error) {
		// Another goroutine may have completed a refresh while this one
		// waited on the group.
		c.mu.RLock()
		if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) <= c.ttl && len(c.tokens) > 0 {
			defer c.mu.RUnlock()
			return c.tokens, nil
		}
		c.mu.RUnlock()
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.TokenMetadata), nil
}

// Lookup finds a token by exact address, loading the catalog on demand.
func (c *Catalog) Lookup(ctx context.Context, address string) (domain.TokenMetadata, bool) {
	if _, err := c.Load(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("catalog load failed during lookup")
		return domain.TokenMetadata{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.byAddress[address]
	return token, ok
}

// Search matches query case-insensitively against symbol and name and
// returns at most limit tokens in catalog order.
func (c *Catalog) Search(ctx context.Context, query string, limit int) []domain.TokenMetadata {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	tokens, err := c.Load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("catalog load failed during search")
		return nil
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]domain.TokenMetadata, 0, limit)
	for _, token := range tokens {
		if strings.Contains(strings.ToLower(token.Symbol), needle) ||
			strings.Contains(strings.ToLower(token.Name), needle) {
			matches = append(matches, token)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

// Page slices the catalog with 1-based page numbers.
func (c *Catalog) Page(ctx context.Context, page, pageSize int) ([]domain.TokenMetadata, Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	tokens, err := c.Load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("catalog load failed during paging")
		tokens = nil
	}

	total := len(tokens)
	pages := (total + pageSize - 1) / pageSize
	offset := (page - 1) * pageSize
	end := offset + pageSize
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	items := make([]domain.TokenMetadata, end-offset)
	copy(items, tokens[offset:end])

	return items, Pagination{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
		HasNext:  page < pages,
		HasPrev:  page > 1 && total > 0,
	}
}

// catalogRecord is the upstream token-list shape; unknown fields are
// ignored and malformed records are dropped rather than failing the
// whole fetch.
type catalogRecord struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// fetch performs a live catalog fetch, falling back to the previous
// in-memory catalog and then to the embedded default list.
func (c *Catalog) fetch(ctx context.Context) ([]domain.TokenMetadata, error) {
	var records []catalogRecord
	err := c.client.GetJSON(ctx, c.url, url.Values{}, &records)
	if err != nil || len(records) == 0 {
		metrics.CatalogRefreshFailures.Inc()
		c.logger.Warn().Err(err).Msg("live catalog fetch failed")

		c.mu.RLock()
		stale := c.tokens
		c.mu.RUnlock()
		if len(stale) > 0 {
			c.logger.Info().Int("tokens", len(stale)).Msg("serving stale catalog")
			return stale, nil
		}
		if len(defaultTokens) > 0 {
			c.logger.Info().Int("tokens", len(defaultTokens)).Msg("serving embedded default catalog")
			c.install(defaultTokens, time.Time{}) // defaults never count as fresh
			return defaultTokens, nil
		}
		return nil, &common.CatalogUnavailableError{Err: err}
	}

	tokens := make([]domain.TokenMetadata, 0, len(records))
	for _, r := range records {
		if r.Address == "" {
			continue
		}
		tokens = append(tokens, domain.TokenMetadata{
			Address:  r.Address,
			Name:     r.Name,
			Symbol:   r.Symbol,
			Decimals: r.Decimals,
			Source:   domain.SourceCatalog,
		})
	}

	now := time.Now()
	c.install(tokens, now)
	metrics.CatalogRefreshes.Inc()
	metrics.CatalogSize.Set(float64(len(tokens)))
	c.logger.Info().Int("tokens", len(tokens)).Msg("catalog refreshed")

	if c.store != nil {
		if err := c.store.Save(now, tokens); err != nil {
			c.logger.Warn().Err(err).Msg("snapshot persist failed")
		} else {
			metrics.SnapshotWrites.Inc()
		}
	}

	return tokens, nil
}

// install replaces the in-memory catalog and indexes every record into
// the shared metadata cache.
func (c *Catalog) install(tokens []domain.TokenMetadata, fetchedAt time.Time) {
	byAddress := make(map[string]domain.TokenMetadata, len(tokens))
	for _, token := range tokens {
		byAddress[token.Address] = token
		if c.cache != nil {
			c.cache.Set(token.Address, token)
		}
	}

	c.mu.Lock()
	c.tokens = tokens
	c.byAddress = byAddress
	c.fetchedAt = fetchedAt
	c.mu.Unlock()
}

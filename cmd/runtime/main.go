package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/hxuan190/price-engine/docs"
	"github.com/hxuan190/price-engine/internal/cache"
	"github.com/hxuan190/price-engine/internal/catalog"
	"github.com/hxuan190/price-engine/internal/config"
	"github.com/hxuan190/price-engine/internal/domain"
	httpservice "github.com/hxuan190/price-engine/internal/http"
	"github.com/hxuan190/price-engine/internal/httpclient"
	"github.com/hxuan190/price-engine/internal/metadata"
	"github.com/hxuan190/price-engine/internal/pricing"
)

// @title Token Price Engine API
// @version 1.0
// @description Best-effort fiat-equivalent token pricing for SPL tokens.
// @description
// @description Pricing runs an ordered strategy cascade: direct quote into the
// @description quote currency (0.5% slippage, multi-hop allowed), SOL-bridged
// @description two-leg conversion, then direct-route retries at relaxed
// @description tolerances. Each result carries a confidence label derived from
// @description the strategy that produced it.
// @BasePath /
// @schemes http https
// @tag.name price
// @tag.description Single and batch token price lookups
// @tag.name tokens
// @tag.description Token catalog search and paging
// @tag.name status
// @tag.description End-to-end pricing engine probe

const metadataCacheSize = 8192

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded; using process environment")
	}

	var generalConf config.GeneralConfig
	if err := generalConf.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load server config")
	}

	var pricingConf config.PricingConfig
	if err := pricingConf.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load pricing config")
	}

	level, err := zerolog.ParseLevel(generalConf.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if generalConf.Env == config.DevEnv {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	client := httpclient.New(log.Logger, httpclient.Config{
		Timeout:     pricingConf.RequestTimeout,
		Retries:     pricingConf.Retries,
		BackoffBase: pricingConf.RetryBackoff,
	})

	// Snapshot persistence is best-effort; a failed open means cold start.
	store, err := catalog.NewSnapshotStore(pricingConf.SnapshotPath)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot store unavailable; catalog will not persist")
		store = nil
	}

	tokenCache := cache.New[string, domain.TokenMetadata](metadataCacheSize)
	priceCache := cache.NewWithTTL[string, domain.PriceQuote](1024, pricingConf.PriceCacheTTL)

	cat := catalog.New(log.Logger, client, tokenCache, store, catalog.Config{
		URL: pricingConf.CatalogURL,
		TTL: pricingConf.CatalogTTL,
	})

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	cat.Bootstrap(bootstrapCtx)
	cancelBootstrap()

	resolver := metadata.NewResolver(log.Logger, tokenCache, cat, client, pricingConf.TokenMetaURLs)
	quoter := pricing.NewQuoteClient(log.Logger, client, pricingConf.QuoteAPIURL)
	engine := pricing.NewEngine(log.Logger, resolver, quoter, priceCache, &pricingConf)

	httpSvc := httpservice.NewHTTPService(&generalConf, engine, cat)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	if err := httpSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close snapshot store")
		}
	}
	log.Info().Msg("shutdown complete")
}

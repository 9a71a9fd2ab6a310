package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Price resolution metrics
	PriceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priceengine_price_requests_total",
			Help: "Total number of price resolution requests",
		},
		[]string{"strategy", "status"},
	)

	PriceResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "priceengine_price_resolution_duration_seconds",
			Help:    "Price resolution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	StrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priceengine_strategy_failures_total",
			Help: "Total number of failed pricing strategy attempts",
		},
		[]string{"strategy"},
	)

	// Metadata / catalog metrics
	MetadataCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_metadata_cache_hits_total",
		Help: "Total number of metadata cache hits",
	})

	MetadataCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_metadata_cache_misses_total",
		Help: "Total number of metadata cache misses",
	})

	MetadataFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_metadata_fallbacks_total",
		Help: "Total number of resolutions that degraded to fallback metadata",
	})

	CatalogRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_catalog_refreshes_total",
		Help: "Total number of successful catalog refreshes",
	})

	CatalogRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_catalog_refresh_failures_total",
		Help: "Total number of failed catalog fetch attempts",
	})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "priceengine_catalog_size",
		Help: "Number of tokens in the loaded catalog",
	})

	SnapshotWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_snapshot_writes_total",
		Help: "Total number of catalog snapshots persisted",
	})

	// Outbound HTTP metrics
	OutboundRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceengine_outbound_retries_total",
		Help: "Total number of outbound request retries",
	})

	// HTTP server metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priceengine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "priceengine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

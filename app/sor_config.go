package main

import (
	"github.com/plunderswap/sor/domain"
)

// DefaultConfig defines the default config for the smart order router.
var DefaultConfig = domain.Config{
	ServerAddress:             ":9092",
	ServerTimeoutDurationSecs: 10,

	LoggerFilename:     "sor.log",
	LoggerIsProduction: true,
	LoggerLevel:        "info",

	ChainRPCEndpoint: "http://localhost:8545",
	ChainID:          domain.ChainIDZilliqa,

	GasPriceRefetchIntervalMs: 5000,
	HeightRefetchIntervalMs:   2000,
	MaxHeightUpdateDeltaSecs:  30,

	Contracts: &domain.ContractsConfig{},

	Router: &domain.RouterConfig{
		RouteConfig: domain.RouteConfig{
			MaxHops:             3,
			MaxSplits:           4,
			DistributionPercent: 5,
		},
		MaxConcurrentQuotes: 64,
		QuoterOptimization:  true,
		QuoteRateLimitBurst: 10,
		QuoteTimeoutMs:      8000,
	},

	Pools: &domain.PoolsConfig{
		SnapshotPath:       "pools.json",
		CacheSize:          1024,
		CacheExpirySeconds: 30,
		BaseTokens:         []string{"native"},
	},

	Pricing: &domain.PricingConfig{
		DefaultSource:          domain.StaticPricingSourceType,
		CacheExpiryMs:          60_000, // 1 minute.
		CoingeckoUrl:           "https://api.coingecko.com/api/v3/simple/price",
		CoingeckoQuoteCurrency: "usd",
	},

	Tokens: &domain.TokensConfig{
		RefetchIntervalSecs: 600, // 10 minutes
	},

	CORS: &domain.CORSConfig{
		AllowedHeaders: "Origin, Accept, Content-Type, X-Requested-With, X-Server-Time, Accept-Encoding, sentry-trace, baggage",
		AllowedMethods: "HEAD, GET, OPTIONS",
		AllowedOrigin:  "*",
	},

	OTEL: &domain.OTELConfig{
		Environment: "production",
	},
}

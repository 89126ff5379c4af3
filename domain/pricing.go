package domain

import (
	"context"

	"github.com/osmosis-labs/osmosis/osmomath"
)

// PricingSourceType defines the enumeration
// for possible pricing sources.
type PricingSourceType int

const (
	// StaticPricingSourceType serves prices from configuration.
	StaticPricingSourceType PricingSourceType = iota
	// CoinGeckoPricingSourceType defines the pricing source
	// that calls CoinGecko API.
	CoinGeckoPricingSourceType
	NoneSourceType = -1
)

// PriceOracle returns the USD price of one whole unit of a currency.
type PriceOracle interface {
	GetUSDPrice(ctx context.Context, currency Currency) (osmomath.Dec, error)
}

// PricingConfig defines the config for the USD pricing source.
type PricingConfig struct {
	DefaultSource PricingSourceType `mapstructure:"default-source"`
	// The number of milliseconds to cache the pricing data for.
	CacheExpiryMs int `mapstructure:"cache-expiry-ms"`

	CoingeckoUrl           string `mapstructure:"coingecko-url"`
	CoingeckoQuoteCurrency string `mapstructure:"coingecko-quote-currency"`
	// Token address (hex) to coingecko ID.
	CoingeckoIds map[string]string `mapstructure:"coingecko-ids"`
	// Token address (hex) to static USD price. "native" keys the native coin.
	StaticPrices map[string]string `mapstructure:"static-prices"`
}

// FormatPricingCacheKey formats the cache key for a currency price.
func FormatPricingCacheKey(currency Currency, quoteCurrency string) string {
	return currency.Key() + "/" + quoteCurrency
}

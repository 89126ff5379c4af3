package routertesting

import (
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// MainnetTestOptions holds the test options for the use cases set up from mainnet state.
type MainnetTestOptions struct {
	RouterConfig    domain.RouterConfig
	PoolsConfig     domain.PoolsConfig
	ChainID         domain.ChainID
	QuoteProvider   domain.QuoteProvider
	PriceOracle     domain.PriceOracle
	GasPriceWei     osmomath.Int
	IsLoggerEnabled bool
}

// MainnetTestOption is a function that sets an option for the mainnet state use cases.
type MainnetTestOption func(*MainnetTestOptions)

// WithRouterConfig sets the router config on options.
func WithRouterConfig(config domain.RouterConfig) MainnetTestOption {
	return func(options *MainnetTestOptions) {
		options.RouterConfig = config
	}
}

// WithPoolsConfig sets the pools config on options.
func WithPoolsConfig(config domain.PoolsConfig) MainnetTestOption {
	return func(options *MainnetTestOptions) {
		options.PoolsConfig = config
	}
}

// WithQuoteProvider replaces the simulating quote provider.
func WithQuoteProvider(quoteProvider domain.QuoteProvider) MainnetTestOption {
	return func(options *MainnetTestOptions) {
		options.QuoteProvider = quoteProvider
	}
}

// WithPriceOracle sets the USD price oracle of the router.
func WithPriceOracle(priceOracle domain.PriceOracle) MainnetTestOption {
	return func(options *MainnetTestOptions) {
		options.PriceOracle = priceOracle
	}
}

// WithGasPriceWei sets the gas price of the router.
func WithGasPriceWei(gasPriceWei osmomath.Int) MainnetTestOption {
	return func(options *MainnetTestOptions) {
		options.GasPriceWei = gasPriceWei
	}
}

// WithLoggerEnabled logs to stdout at debug level.
func WithLoggerEnabled() MainnetTestOption {
	return func(options *MainnetTestOptions) {
		options.IsLoggerEnabled = true
	}
}

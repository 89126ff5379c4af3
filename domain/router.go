package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/osmosis-labs/osmosis/osmomath"
)

// TradeType is the side of the trade that is fixed.
type TradeType int

const (
	// TradeTypeExactInput fixes the input amount and maximizes the output.
	TradeTypeExactInput TradeType = iota
	// TradeTypeExactOutput fixes the output amount and minimizes the input.
	TradeTypeExactOutput
)

func (t TradeType) String() string {
	switch t {
	case TradeTypeExactInput:
		return "EXACT_INPUT"
	case TradeTypeExactOutput:
		return "EXACT_OUTPUT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TradeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// RouteType classifies a route by the protocols of its pools.
type RouteType int

const (
	RouteTypeV2 RouteType = iota
	RouteTypeV3
	RouteTypeStable
	// RouteTypeMixed routes go through pools of more than one protocol.
	RouteTypeMixed
)

func (t RouteType) String() string {
	switch t {
	case RouteTypeV2:
		return "V2"
	case RouteTypeV3:
		return "V3"
	case RouteTypeStable:
		return "STABLE"
	case RouteTypeMixed:
		return "MIXED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t RouteType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RouteType) UnmarshalText(text []byte) error {
	for _, routeType := range []RouteType{RouteTypeV2, RouteTypeV3, RouteTypeStable, RouteTypeMixed} {
		if strings.EqualFold(routeType.String(), string(text)) {
			*t = routeType
			return nil
		}
	}
	return fmt.Errorf("invalid route type %q", string(text))
}

// Route is an ordered sequence of pools leading from input to output.
type Route interface {
	GetInput() Currency
	GetOutput() Currency
	GetPools() []Pool
	// GetPath returns the currencies visited, input first, output last.
	GetPath() []Currency
	GetType() RouteType
	// ID is the ordered pool identities joined together.
	ID() string
	HopCount() int
	String() string
}

// RouteQuote is the quote provider answer for one route and one amount.
type RouteQuote struct {
	// Amount is the counter amount: output for exact input, input for exact output.
	Amount CurrencyAmount
	// InitializedTicksCrossed has one entry per pool in the route.
	InitializedTicksCrossed []uint32
}

// TotalInitializedTicksCrossed sums the ticks crossed across all pools.
func (q RouteQuote) TotalInitializedTicksCrossed() uint64 {
	total := uint64(0)
	for _, ticks := range q.InitializedTicksCrossed {
		total += uint64(ticks)
	}
	return total
}

// QuoteProvider simulates a swap along a route at a pinned block.
type QuoteProvider interface {
	GetRouteQuote(ctx context.Context, route Route, amount CurrencyAmount, tradeType TradeType, blockNumber uint64) (RouteQuote, error)
}

// GasCost is the estimated execution cost of a route.
type GasCost struct {
	GasEstimate    osmomath.Int
	GasCostInToken CurrencyAmount
	GasCostInUSD   osmomath.Dec
	// Known is false when no conversion into the quote currency was possible
	// and GasCostInToken is zero.
	Known bool
}

// GasModel estimates route gas in gas units and in the quote currency.
type GasModel interface {
	EstimateGasCost(route Route, initializedTicksCrossed []uint32) GasCost
	// QuoteCurrency is the currency GasCostInToken is denominated in.
	QuoteCurrency() Currency
}

// RouteWithValidQuote is a route quoted at one distribution percent.
// Constructed once and never mutated.
type RouteWithValidQuote struct {
	Route   Route `json:"-"`
	Percent uint8 `json:"percent"`
	// Amount is the fixed side slice.
	Amount CurrencyAmount `json:"amount"`
	// Quote is the counter amount for Amount.
	Quote CurrencyAmount `json:"quote"`
	// QuoteAdjustedForGas is Quote - gas for exact input and Quote + gas for exact output.
	QuoteAdjustedForGas     CurrencyAmount `json:"quoteAdjustedForGas"`
	GasEstimate             osmomath.Int   `json:"gasEstimate"`
	GasCostInToken          CurrencyAmount `json:"gasCostInToken"`
	GasCostInUSD            osmomath.Dec   `json:"gasCostInUSD"`
	InitializedTicksCrossed []uint32       `json:"initializedTicksCrossed"`
}

// RouteWithAmounts is a selected route with its final input and output amounts.
type RouteWithAmounts struct {
	Route        Route          `json:"-"`
	Percent      uint8          `json:"percent"`
	InputAmount  CurrencyAmount `json:"inputAmount"`
	OutputAmount CurrencyAmount `json:"outputAmount"`
	GasEstimate  osmomath.Int   `json:"gasEstimate"`
}

// BestRoutes is the selected route combination.
// Percents sum to 100 and the fixed side amounts sum to the trade amount.
type BestRoutes struct {
	Routes                  []RouteWithAmounts
	InputAmount             CurrencyAmount
	OutputAmount            CurrencyAmount
	GasEstimate             osmomath.Int
	GasEstimateInUSD        osmomath.Dec
	GasEstimateInQuoteToken CurrencyAmount
	QuoteAdjustedForGas     CurrencyAmount
}

// SmartRouterTrade is the result returned to callers of GetBestTrade.
type SmartRouterTrade struct {
	TradeType        TradeType
	Routes           []RouteWithAmounts
	GasEstimate      osmomath.Int
	GasEstimateInUSD osmomath.Dec
	InputAmount      CurrencyAmount
	OutputAmount     CurrencyAmount
	BlockNumber      uint64
}

// BlockNumberFunc resolves the block number to pin a trade to.
type BlockNumberFunc func(ctx context.Context) (uint64, error)

// GasPriceFunc resolves the gas price in wei.
type GasPriceFunc func(ctx context.Context) (osmomath.Int, error)

// StaticBlockNumber returns a BlockNumberFunc always resolving to blockNumber.
func StaticBlockNumber(blockNumber uint64) BlockNumberFunc {
	return func(context.Context) (uint64, error) {
		return blockNumber, nil
	}
}

// StaticGasPrice returns a GasPriceFunc always resolving to gasPriceWei.
func StaticGasPrice(gasPriceWei osmomath.Int) GasPriceFunc {
	return func(context.Context) (osmomath.Int, error) {
		return gasPriceWei, nil
	}
}

// TradeConfig carries the collaborators and bounds of a single GetBestTrade call.
// Zero values fall back to defaults. Cancellation travels in the context.
type TradeConfig struct {
	RouteConfig

	PoolProvider  PoolProvider
	QuoteProvider QuoteProvider

	// BlockNumber is resolved once per trade. Nil means block 0 (latest).
	BlockNumber BlockNumberFunc
	// GasPriceWei is optional. Nil or a failing func makes gas costs unknown.
	GasPriceWei GasPriceFunc

	// AllowedPoolTypes restricts the pool types used. Empty means all.
	AllowedPoolTypes []PoolType

	// QuoterOptimization issues quote batches one distribution percent at a time.
	QuoterOptimization bool

	// QuoteCurrencyUSDPrice and NativeCurrencyUSDPrice are optional.
	// Nil decimals are looked up through PriceOracle when it is set.
	QuoteCurrencyUSDPrice  osmomath.Dec
	NativeCurrencyUSDPrice osmomath.Dec
	PriceOracle            PriceOracle

	// MaxConcurrentQuotes bounds in-flight quote requests.
	MaxConcurrentQuotes int

	// DisableDualDistribution evaluates only the configured distribution percent
	// even when a direct route exists.
	DisableDualDistribution bool
}

// RouterConfig is the router section of the service configuration.
type RouterConfig struct {
	RouteConfig `mapstructure:",squash"`

	MaxConcurrentQuotes     int      `mapstructure:"max-concurrent-quotes"`
	QuoterOptimization      bool     `mapstructure:"quoter-optimization"`
	DisableDualDistribution bool     `mapstructure:"disable-dual-distribution"`
	AllowedPoolTypes        []string `mapstructure:"allowed-pool-types"`
	// Quote RPC requests per second. Zero disables rate limiting.
	QuoteRateLimitRPS   float64 `mapstructure:"quote-rate-limit-rps"`
	QuoteRateLimitBurst int     `mapstructure:"quote-rate-limit-burst"`
	// Use the on-chain quoter contracts instead of local simulation.
	OnChainQuotes bool `mapstructure:"on-chain-quotes"`
	// Request timeout for a single trade in milliseconds.
	QuoteTimeoutMs int `mapstructure:"quote-timeout-ms"`
}

// RouterOption configures a single trade on top of the service defaults.
type RouterOption func(*TradeConfig)

// WithMaxHops configures the maximum number of pools per route.
func WithMaxHops(maxHops int) RouterOption {
	return func(c *TradeConfig) {
		c.MaxHops = maxHops
	}
}

// WithMaxSplits configures the maximum number of routes in a split.
func WithMaxSplits(maxSplits int) RouterOption {
	return func(c *TradeConfig) {
		c.MaxSplits = maxSplits
	}
}

// WithDistributionPercent configures the split granularity.
func WithDistributionPercent(distributionPercent int) RouterOption {
	return func(c *TradeConfig) {
		c.DistributionPercent = distributionPercent
	}
}

// WithAllowedPoolTypes restricts the pool types used for routing.
func WithAllowedPoolTypes(poolTypes []PoolType) RouterOption {
	return func(c *TradeConfig) {
		c.AllowedPoolTypes = poolTypes
	}
}

// WithBlockNumber pins the trade to a block.
func WithBlockNumber(blockNumber uint64) RouterOption {
	return func(c *TradeConfig) {
		c.BlockNumber = StaticBlockNumber(blockNumber)
	}
}

// WithGasPriceWei overrides the gas price.
func WithGasPriceWei(gasPriceWei osmomath.Int) RouterOption {
	return func(c *TradeConfig) {
		c.GasPriceWei = StaticGasPrice(gasPriceWei)
	}
}

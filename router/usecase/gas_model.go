package usecase

import (
	"context"
	"errors"

	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/log"
)

// Gas units charged per pool type. A base cost is charged once for every pool type in the route.
// Uninitialized ticks crossed are free.
const (
	baseSwapCostV2        = 135_000
	costPerExtraHopV2     = 50_000
	baseSwapCostV3        = 2_000
	costPerHopV3          = 80_000
	costPerInitTick       = 31_000
	baseSwapCostStable    = 180_000
	costPerExtraHopStable = 70_000
)

// GasModelParams are the inputs of CreateGasModel.
type GasModelParams struct {
	// GasPriceWei is the gas price in native raw units. Nil means unknown.
	GasPriceWei osmomath.Int
	// QuoteCurrency is the currency gas costs are converted into.
	QuoteCurrency domain.Currency

	// Optional USD prices of one whole unit. Nil values are looked up through PriceOracle.
	QuoteCurrencyUSDPrice  osmomath.Dec
	NativeCurrencyUSDPrice osmomath.Dec
	PriceOracle            domain.PriceOracle

	// Optional source of wrapped native pools used when USD prices are unknown.
	PoolProvider domain.PoolProvider
	BlockNumber  uint64

	Logger log.Logger
}

type gasModel struct {
	quoteCurrency  domain.Currency
	nativeCurrency domain.Currency
	gasPriceWei    osmomath.Int

	// Raw native units convert into raw quote units as native * quoteNumerator / quoteDenominator.
	// Both are nil when the conversion is unknown.
	quoteNumerator   osmomath.BigDec
	quoteDenominator osmomath.BigDec
	// nativeUSDPrice is the USD price of one whole native unit. Nil when unknown.
	nativeUSDPrice osmomath.Dec
}

var _ domain.GasModel = &gasModel{}

// CreateGasModel builds the gas model of a trade.
// Gas costs are converted into the quote currency with the first rule that applies:
// the quote currency is the native coin or its wrapped token, both USD prices are known,
// or a wrapped native pool paired with the quote currency exists.
// Otherwise gas costs in token are zero and marked unknown.
// The only error returned is the cancellation of ctx.
func CreateGasModel(ctx context.Context, params GasModelParams) (domain.GasModel, error) {
	logger := params.Logger
	if logger == nil {
		logger = &log.NoOpLogger{}
	}

	native := domain.NativeCurrency(params.QuoteCurrency.ChainID)
	model := &gasModel{
		quoteCurrency:  params.QuoteCurrency,
		nativeCurrency: native,
		gasPriceWei:    params.GasPriceWei,
	}

	nativeUSD := resolveUSDPrice(ctx, params.NativeCurrencyUSDPrice, params.PriceOracle, native, logger)
	if nativeUSD.IsNil() {
		// Try the wrapped token with the oracle as well.
		nativeUSD = resolveUSDPrice(ctx, osmomath.Dec{}, params.PriceOracle, native.Wrapped(), logger)
	}
	model.nativeUSDPrice = nativeUSD

	if err := ctx.Err(); err != nil {
		return nil, domain.NewQuoteCancelledError(err)
	}

	wrappedNative := native.Wrapped()
	quote := params.QuoteCurrency

	// 1. Gas is paid in the quote currency.
	if quote.Equals(native) || quote.Wrapped().Equals(wrappedNative) {
		model.quoteNumerator, model.quoteDenominator = osmomath.OneBigDec(), osmomath.OneBigDec()
		return model, nil
	}

	// 2. Convert through USD.
	quoteUSD := resolveUSDPrice(ctx, params.QuoteCurrencyUSDPrice, params.PriceOracle, quote, logger)
	if !nativeUSD.IsNil() && nativeUSD.IsPositive() && !quoteUSD.IsNil() && quoteUSD.IsPositive() {
		// raw native -> whole native -> USD -> whole quote -> raw quote
		model.quoteNumerator = osmomath.BigDecFromDec(nativeUSD).Mul(bigDecimalsMultiplier(quote.Decimals))
		model.quoteDenominator = osmomath.BigDecFromDec(quoteUSD).Mul(bigDecimalsMultiplier(native.Decimals))
		return model, nil
	}

	// 3. Convert through the deepest wrapped native pool.
	if params.PoolProvider != nil && !wrappedNative.IsNative {
		price, err := nativePoolPrice(ctx, params.PoolProvider, wrappedNative, quote.Wrapped(), params.BlockNumber)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, domain.NewQuoteCancelledError(ctxErr)
			}
			logger.Debug("no native pool to price gas", zap.Stringer("quote_currency", quote), zap.Error(err))
		} else if price.IsPositive() {
			model.quoteNumerator, model.quoteDenominator = price, osmomath.OneBigDec()
			return model, nil
		}
	}

	// 4. Unknown.
	logger.Debug("gas cost in quote currency is unknown", zap.Stringer("quote_currency", quote))
	return model, nil
}

func resolveUSDPrice(ctx context.Context, price osmomath.Dec, oracle domain.PriceOracle, currency domain.Currency, logger log.Logger) osmomath.Dec {
	if !price.IsNil() {
		return price
	}
	if oracle == nil {
		return osmomath.Dec{}
	}

	price, err := oracle.GetUSDPrice(ctx, currency)
	if err != nil {
		if !errors.Is(err, domain.ErrPriceNotFound) {
			logger.Debug("failed to get usd price", zap.Stringer("currency", currency), zap.Error(err))
		}
		return osmomath.Dec{}
	}
	if price.IsNil() || !price.IsPositive() {
		return osmomath.Dec{}
	}
	return price
}

// nativePoolPrice returns the spot price of wrapped native in quote from the pool
// pairing them with the largest wrapped native balance.
func nativePoolPrice(ctx context.Context, provider domain.PoolProvider, wrappedNative, quote domain.Currency, blockNumber uint64) (osmomath.BigDec, error) {
	candidatePools, err := provider.GetCandidatePools(ctx, domain.CandidatePoolsParams{
		CurrencyA:   wrappedNative,
		CurrencyB:   quote,
		BlockNumber: blockNumber,
	})
	if err != nil {
		return osmomath.BigDec{}, err
	}

	var (
		best          domain.Pool
		bestLiquidity = osmomath.ZeroInt()
	)
	for _, pool := range candidatePools {
		if !pool.Involves(wrappedNative) || !pool.Involves(quote) {
			continue
		}
		liquidity := pool.GetLiquidity(wrappedNative)
		if best == nil || liquidity.GT(bestLiquidity) {
			best = pool
			bestLiquidity = liquidity
		}
	}
	if best == nil || !bestLiquidity.IsPositive() {
		return osmomath.BigDec{}, domain.PoolNotFoundError{PoolID: wrappedNative.String() + "/" + quote.String()}
	}

	return best.SpotPrice(wrappedNative)
}

// QuoteCurrency implements domain.GasModel.
func (m *gasModel) QuoteCurrency() domain.Currency {
	return m.quoteCurrency
}

// EstimateGasCost implements domain.GasModel.
func (m *gasModel) EstimateGasCost(route domain.Route, initializedTicksCrossed []uint32) domain.GasCost {
	gasUnits := osmomath.NewInt(estimateGasUnits(route, initializedTicksCrossed))

	cost := domain.GasCost{
		GasEstimate:    gasUnits,
		GasCostInToken: domain.ZeroCurrencyAmount(m.quoteCurrency),
		GasCostInUSD:   osmomath.ZeroDec(),
	}

	if m.gasPriceWei.IsNil() || m.gasPriceWei.IsZero() {
		return cost
	}

	nativeCost := gasUnits.Mul(m.gasPriceWei)

	if !m.nativeUSDPrice.IsNil() {
		cost.GasCostInUSD = nativeCost.ToLegacyDec().Mul(m.nativeUSDPrice).Quo(domain.DecimalsMultiplier(m.nativeCurrency.Decimals))
	}

	if m.quoteNumerator.IsNil() || m.quoteDenominator.IsNil() {
		return cost
	}

	inQuote := osmomath.BigDecFromSDKInt(nativeCost).Mul(m.quoteNumerator).Quo(m.quoteDenominator).TruncateInt()
	cost.GasCostInToken = domain.NewCurrencyAmount(m.quoteCurrency, osmomath.NewIntFromBigInt(inQuote.BigInt()))
	cost.Known = true
	return cost
}

func bigDecimalsMultiplier(decimals uint8) osmomath.BigDec {
	return osmomath.BigDecFromDec(domain.DecimalsMultiplier(decimals))
}

// estimateGasUnits sums the per pool type gas of a route.
func estimateGasUnits(route domain.Route, initializedTicksCrossed []uint32) int64 {
	var v2Hops, v3Hops, stableHops int64
	for _, pool := range route.GetPools() {
		switch pool.GetType() {
		case domain.PoolTypeV2:
			v2Hops++
		case domain.PoolTypeV3:
			v3Hops++
		case domain.PoolTypeStable:
			stableHops++
		}
	}

	gas := int64(0)
	if v2Hops > 0 {
		gas += baseSwapCostV2 + costPerExtraHopV2*(v2Hops-1)
	}
	if v3Hops > 0 {
		gas += baseSwapCostV3 + costPerHopV3*v3Hops
	}
	if stableHops > 0 {
		gas += baseSwapCostStable + costPerExtraHopStable*(stableHops-1)
	}

	ticks := int64(0)
	for _, crossed := range initializedTicksCrossed {
		ticks += int64(crossed)
	}
	gas += costPerInitTick * ticks

	return gas
}

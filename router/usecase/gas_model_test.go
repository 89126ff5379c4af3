package usecase_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mocks"
	routerusecase "github.com/plunderswap/sor/router/usecase"
	"github.com/plunderswap/sor/router/usecase/route"
	"github.com/plunderswap/sor/router/usecase/routertesting"
)

var oneGwei = osmomath.NewInt(1_000_000_000)

func (s *RouterTestSuite) mustNewRoute(input, output domain.Currency, pools ...domain.Pool) domain.Route {
	r, err := route.New(input, output, pools)
	s.Require().NoError(err)
	return r
}

func (s *RouterTestSuite) TestEstimateGasUnits() {
	var (
		v2AB     = routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)
		v2BC     = routertesting.MustNewV2Pool(2, TokenB, TokenC, reserve, reserve)
		v2CD     = routertesting.MustNewV2Pool(3, TokenC, TokenD, reserve, reserve)
		v3AB     = routertesting.MustNewV3Pool(4, TokenA, TokenB, reserve)
		v3BC     = routertesting.MustNewV3Pool(5, TokenB, TokenC, reserve)
		stableAB = routertesting.MustNewStablePool(6, TokenA, TokenB, reserve, reserve)
		stableBC = routertesting.MustNewStablePool(7, TokenB, TokenC, reserve, reserve)
	)

	tests := []struct {
		name          string
		route         domain.Route
		ticksCrossed  []uint32
		expectedUnits int64
	}{
		{
			name:          "single v2 hop",
			route:         s.mustNewRoute(TokenA, TokenB, v2AB),
			expectedUnits: routerusecase.BaseSwapCostV2,
		},
		{
			name:          "three v2 hops",
			route:         s.mustNewRoute(TokenA, TokenD, v2AB, v2BC, v2CD),
			expectedUnits: routerusecase.BaseSwapCostV2 + 2*routerusecase.CostPerExtraHopV2,
		},
		{
			name:          "single v3 hop without initialized ticks",
			route:         s.mustNewRoute(TokenA, TokenB, v3AB),
			ticksCrossed:  []uint32{0},
			expectedUnits: routerusecase.BaseSwapCostV3 + routerusecase.CostPerHopV3,
		},
		{
			name:          "two v3 hops crossing ticks",
			route:         s.mustNewRoute(TokenA, TokenC, v3AB, v3BC),
			ticksCrossed:  []uint32{2, 1},
			expectedUnits: routerusecase.BaseSwapCostV3 + 2*routerusecase.CostPerHopV3 + 3*routerusecase.CostPerInitTick,
		},
		{
			name:          "two stable hops",
			route:         s.mustNewRoute(TokenA, TokenC, stableAB, stableBC),
			expectedUnits: routerusecase.BaseSwapCostStable + routerusecase.CostPerExtraHopStable,
		},
		{
			name:          "mixed route charges each protocol base once",
			route:         s.mustNewRoute(TokenA, TokenC, v3AB, v2BC),
			ticksCrossed:  []uint32{1, 0},
			expectedUnits: routerusecase.BaseSwapCostV3 + routerusecase.CostPerHopV3 + routerusecase.CostPerInitTick + routerusecase.BaseSwapCostV2,
		},
		{
			name:          "stable and v2",
			route:         s.mustNewRoute(TokenA, TokenC, stableAB, v2BC),
			expectedUnits: routerusecase.BaseSwapCostStable + routerusecase.BaseSwapCostV2,
		},
	}

	for _, tc := range tests {
		tc := tc
		s.Run(tc.name, func() {
			s.Require().Equal(tc.expectedUnits, routerusecase.EstimateGasUnits(tc.route, tc.ticksCrossed))
		})
	}
}

func (s *RouterTestSuite) TestCreateGasModel() {
	var (
		singleV2 = s.mustNewRoute(TokenA, TokenB, routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve))
		// 135000 gas at 1 gwei
		nativeCost = osmomath.NewInt(routerusecase.BaseSwapCostV2).Mul(oneGwei)

		// 1 WETH = 2000 DAI
		wethDAI = routertesting.MustNewV2Pool(2, WETH, DAI, routertesting.Units(WETH, 100), routertesting.Units(DAI, 200_000))
		// shallower pool at a worse price, ignored
		wethDAIShallow = routertesting.MustNewV2Pool(3, WETH, DAI, routertesting.Units(WETH, 1), routertesting.Units(DAI, 1_000))

		// 135000 gas at 20 gwei
		twentyGwei = oneGwei.MulRaw(20)
		// 1 WETH = 0.015 USDC
		wethUSDCCheap = routertesting.MustNewV2Pool(4, WETH, USDC, routertesting.Units(WETH, 100_000), routertesting.Units(USDC, 1_500))
	)

	tests := []struct {
		name   string
		params routerusecase.GasModelParams

		expectedKnown          bool
		expectedGasCostInToken osmomath.Int
		expectedGasCostInUSD   osmomath.Dec
	}{
		{
			name: "quote is wrapped native",
			params: routerusecase.GasModelParams{
				GasPriceWei:   oneGwei,
				QuoteCurrency: WETH,
			},
			expectedKnown:          true,
			expectedGasCostInToken: nativeCost,
			expectedGasCostInUSD:   osmomath.ZeroDec(),
		},
		{
			name: "quote is native",
			params: routerusecase.GasModelParams{
				GasPriceWei:            oneGwei,
				QuoteCurrency:          ETH,
				NativeCurrencyUSDPrice: osmomath.NewDec(2000),
			},
			expectedKnown:          true,
			expectedGasCostInToken: nativeCost,
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.27"),
		},
		{
			name: "converted through USD prices",
			params: routerusecase.GasModelParams{
				GasPriceWei:            oneGwei,
				QuoteCurrency:          USDC,
				NativeCurrencyUSDPrice: osmomath.NewDec(2000),
				QuoteCurrencyUSDPrice:  osmomath.OneDec(),
			},
			expectedKnown: true,
			// 0.27 USDC
			expectedGasCostInToken: osmomath.NewInt(270_000),
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.27"),
		},
		{
			name: "cents priced native coin",
			params: routerusecase.GasModelParams{
				GasPriceWei:            twentyGwei,
				QuoteCurrency:          USDC,
				NativeCurrencyUSDPrice: osmomath.MustNewDecFromStr("0.015"),
				QuoteCurrencyUSDPrice:  osmomath.OneDec(),
			},
			expectedKnown: true,
			// 0.0000405 USDC truncated to raw units
			expectedGasCostInToken: osmomath.NewInt(40),
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.0000405"),
		},
		{
			name: "sub dollar native coin",
			params: routerusecase.GasModelParams{
				GasPriceWei:            twentyGwei,
				QuoteCurrency:          USDC,
				NativeCurrencyUSDPrice: osmomath.MustNewDecFromStr("0.5"),
				QuoteCurrencyUSDPrice:  osmomath.OneDec(),
			},
			expectedKnown:          true,
			expectedGasCostInToken: osmomath.NewInt(1_350),
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.00135"),
		},
		{
			name: "cents priced native coin into an 18 decimals quote",
			params: routerusecase.GasModelParams{
				GasPriceWei:            twentyGwei,
				QuoteCurrency:          DAI,
				NativeCurrencyUSDPrice: osmomath.MustNewDecFromStr("0.015"),
				QuoteCurrencyUSDPrice:  osmomath.MustNewDecFromStr("0.5"),
			},
			expectedKnown: true,
			// 0.000081 DAI
			expectedGasCostInToken: osmomath.NewInt(81_000_000_000_000),
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.0000405"),
		},
		{
			name: "cents priced native coin through a pool",
			params: routerusecase.GasModelParams{
				GasPriceWei:   twentyGwei,
				QuoteCurrency: USDC,
				PoolProvider:  &mocks.PoolProviderMock{Pools: []domain.Pool{wethUSDCCheap}},
			},
			expectedKnown:          true,
			expectedGasCostInToken: osmomath.NewInt(40),
			expectedGasCostInUSD:   osmomath.ZeroDec(),
		},
		{
			name: "USD prices from the oracle",
			params: routerusecase.GasModelParams{
				GasPriceWei:   oneGwei,
				QuoteCurrency: USDC,
				PriceOracle: &mocks.PriceOracleMock{Prices: map[string]osmomath.Dec{
					WETH.Key(): osmomath.NewDec(2000),
					USDC.Key(): osmomath.OneDec(),
				}},
			},
			expectedKnown:          true,
			expectedGasCostInToken: osmomath.NewInt(270_000),
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.27"),
		},
		{
			name: "converted through the deepest wrapped native pool",
			params: routerusecase.GasModelParams{
				GasPriceWei:   oneGwei,
				QuoteCurrency: DAI,
				PoolProvider:  &mocks.PoolProviderMock{Pools: []domain.Pool{wethDAIShallow, wethDAI}},
			},
			expectedKnown:          true,
			expectedGasCostInToken: nativeCost.MulRaw(2000),
			expectedGasCostInUSD:   osmomath.ZeroDec(),
		},
		{
			name: "quote price missing falls back to the pool",
			params: routerusecase.GasModelParams{
				GasPriceWei:            oneGwei,
				QuoteCurrency:          DAI,
				NativeCurrencyUSDPrice: osmomath.NewDec(2000),
				PriceOracle:            &mocks.PriceOracleMock{},
				PoolProvider:           &mocks.PoolProviderMock{Pools: []domain.Pool{wethDAI}},
			},
			expectedKnown:          true,
			expectedGasCostInToken: nativeCost.MulRaw(2000),
			expectedGasCostInUSD:   osmomath.MustNewDecFromStr("0.27"),
		},
		{
			name: "unknown conversion",
			params: routerusecase.GasModelParams{
				GasPriceWei:   oneGwei,
				QuoteCurrency: TokenC,
				PoolProvider:  &mocks.PoolProviderMock{Pools: []domain.Pool{wethDAI}},
			},
			expectedGasCostInToken: osmomath.ZeroInt(),
			expectedGasCostInUSD:   osmomath.ZeroDec(),
		},
		{
			name: "unknown gas price",
			params: routerusecase.GasModelParams{
				QuoteCurrency:          WETH,
				NativeCurrencyUSDPrice: osmomath.NewDec(2000),
			},
			expectedGasCostInToken: osmomath.ZeroInt(),
			expectedGasCostInUSD:   osmomath.ZeroDec(),
		},
	}

	for _, tc := range tests {
		tc := tc
		s.Run(tc.name, func() {
			gasModel, err := routerusecase.CreateGasModel(context.Background(), tc.params)
			s.Require().NoError(err)
			s.Require().True(gasModel.QuoteCurrency().Equals(tc.params.QuoteCurrency))

			cost := gasModel.EstimateGasCost(singleV2, nil)
			s.Require().Equal(int64(routerusecase.BaseSwapCostV2), cost.GasEstimate.Int64())
			s.Require().Equal(tc.expectedKnown, cost.Known)
			s.Require().Equal(tc.expectedGasCostInToken.String(), cost.GasCostInToken.Amount.String())
			s.Require().True(cost.GasCostInToken.Currency.Equals(tc.params.QuoteCurrency))
			s.Require().Equal(tc.expectedGasCostInUSD.String(), cost.GasCostInUSD.String())
		})
	}
}

func (s *RouterTestSuite) TestCreateGasModel_Cancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := routerusecase.CreateGasModel(ctx, routerusecase.GasModelParams{
		GasPriceWei:   oneGwei,
		QuoteCurrency: USDC,
	})
	s.Require().ErrorIs(err, domain.ErrQuoteCancelled)
}

// Gas lowers the exact input quote and raises the exact output quote.
func (s *RouterTestSuite) TestNewRouteWithValidQuote() {
	var (
		r        = s.mustNewRoute(WETH, TokenA, routertesting.MustNewV2Pool(1, WETH, TokenA, reserve, reserve))
		slice    = routertesting.NewAmount(WETH, 1)
		quote    = domain.RouteQuote{Amount: routertesting.NewAmount(WETH, 2), InitializedTicksCrossed: []uint32{0}}
		gasCost  = osmomath.NewInt(routerusecase.BaseSwapCostV2).Mul(oneGwei)
		gasModel = s.mustCreateGasModel(WETH)
	)

	exactIn := routerusecase.NewRouteWithValidQuote(r, 50, slice, quote, gasModel, domain.TradeTypeExactInput)
	s.Require().Equal(uint8(50), exactIn.Percent)
	s.Require().Equal(quote.Amount.Amount.Sub(gasCost).String(), exactIn.QuoteAdjustedForGas.Amount.String())
	s.Require().Equal(gasCost.String(), exactIn.GasCostInToken.Amount.String())
	s.Require().Equal(int64(routerusecase.BaseSwapCostV2), exactIn.GasEstimate.Int64())

	exactOut := routerusecase.NewRouteWithValidQuote(r, 50, slice, quote, gasModel, domain.TradeTypeExactOutput)
	s.Require().Equal(quote.Amount.Amount.Add(gasCost).String(), exactOut.QuoteAdjustedForGas.Amount.String())

	noGas := routerusecase.NewRouteWithValidQuote(r, 50, slice, quote, nil, domain.TradeTypeExactInput)
	s.Require().Equal(quote.Amount.Amount.String(), noGas.QuoteAdjustedForGas.Amount.String())
	s.Require().True(noGas.GasEstimate.IsZero())
}

func (s *RouterTestSuite) mustCreateGasModel(quoteCurrency domain.Currency) domain.GasModel {
	gasModel, err := routerusecase.CreateGasModel(context.Background(), routerusecase.GasModelParams{
		GasPriceWei:   oneGwei,
		QuoteCurrency: quoteCurrency,
	})
	s.Require().NoError(err)
	return gasModel
}

// GasCostInToken is the truncated exact conversion of the native gas cost through USD prices.
func TestCreateGasModel_USDConversionIsExact(t *testing.T) {
	r, err := route.New(TokenA, TokenB, []domain.Pool{routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)})
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		gasPriceWei := rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "gasPriceWei")
		// Prices in thousandths of a dollar.
		nativeMilli := rapid.Int64Range(1, 10_000_000).Draw(t, "nativeMilliUSD")
		quoteMilli := rapid.Int64Range(1, 10_000_000).Draw(t, "quoteMilliUSD")
		quoteDecimals := rapid.Uint8Range(0, 18).Draw(t, "quoteDecimals")

		quote := domain.NewToken(routertesting.TestChainID, USDC.Address, quoteDecimals, "Q")
		gasModel, err := routerusecase.CreateGasModel(context.Background(), routerusecase.GasModelParams{
			GasPriceWei:            osmomath.NewInt(gasPriceWei),
			QuoteCurrency:          quote,
			NativeCurrencyUSDPrice: osmomath.NewDecWithPrec(nativeMilli, 3),
			QuoteCurrencyUSDPrice:  osmomath.NewDecWithPrec(quoteMilli, 3),
		})
		require.NoError(t, err)

		cost := gasModel.EstimateGasCost(r, nil)
		require.True(t, cost.Known)

		// gas * price * nativeUSD * 10^qd / (quoteUSD * 10^nd)
		nativeDecimals := domain.NativeCurrency(routertesting.TestChainID).Decimals
		numerator := new(big.Int).Mul(big.NewInt(routerusecase.BaseSwapCostV2), big.NewInt(gasPriceWei))
		numerator.Mul(numerator, big.NewInt(nativeMilli))
		numerator.Mul(numerator, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(quoteDecimals)), nil))
		denominator := new(big.Int).Mul(big.NewInt(quoteMilli), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(nativeDecimals)), nil))
		expected := new(big.Int).Quo(numerator, denominator)

		require.Equal(t, expected.String(), cost.GasCostInToken.Amount.String())
		if expected.Sign() > 0 {
			require.True(t, cost.GasCostInToken.Amount.IsPositive())
		}
	})
}

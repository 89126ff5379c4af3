package usecase

import (
	"context"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/log"
)

type (
	RouterUseCaseImpl = routerUseCaseImpl
)

const (
	MaxCandidatesPerPercent = maxCandidatesPerPercent

	BaseSwapCostV2        = baseSwapCostV2
	CostPerExtraHopV2     = costPerExtraHopV2
	BaseSwapCostV3        = baseSwapCostV3
	CostPerHopV3          = costPerHopV3
	CostPerInitTick       = costPerInitTick
	BaseSwapCostStable    = baseSwapCostStable
	CostPerExtraHopStable = costPerExtraHopStable
)

func EstimateGasUnits(route domain.Route, initializedTicksCrossed []uint32) int64 {
	return estimateGasUnits(route, initializedTicksCrossed)
}

func HasDirectRoute(routes []domain.Route) bool {
	return hasDirectRoute(routes)
}

func CoversFullAmount(distributionPercent int) bool {
	return coversFullAmount(distributionPercent)
}

func FilterRoutesForTradeType(routes []domain.Route, tradeType domain.TradeType) []domain.Route {
	return filterRoutesForTradeType(routes, tradeType)
}

func FilterPoolsByType(pools []domain.Pool, allowed []domain.PoolType) []domain.Pool {
	return filterPoolsByType(pools, allowed)
}

func NewRouteWithValidQuote(r domain.Route, percent uint8, slice domain.CurrencyAmount, quote domain.RouteQuote, gasModel domain.GasModel, tradeType domain.TradeType) domain.RouteWithValidQuote {
	return newRouteWithValidQuote(r, percent, slice, quote, gasModel, tradeType)
}

func GetQuotesForDistributions(ctx context.Context, amount domain.CurrencyAmount, routes []domain.Route, tradeType domain.TradeType, blockNumber uint64, gasModel domain.GasModel, config domain.TradeConfig) ([]domain.RouteWithValidQuote, error) {
	return getQuotesForDistributions(ctx, amount, routes, tradeType, blockNumber, gasModel, config, &log.NoOpLogger{})
}

func ValidateTradeConfig(config domain.TradeConfig) error {
	return validateTradeConfig(config)
}

func ResolveGasPrice(ctx context.Context, gasPrice domain.GasPriceFunc) osmomath.Int {
	return resolveGasPrice(ctx, gasPrice, &log.NoOpLogger{})
}

func (r *routerUseCaseImpl) TradeConfig(opts ...domain.RouterOption) (domain.TradeConfig, error) {
	return r.tradeConfig(opts...)
}

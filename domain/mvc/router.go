package mvc

import (
	"context"

	"github.com/plunderswap/sor/domain"
)

// RouterUsecase represent the router's usecases
type RouterUsecase interface {
	// GetBestTrade returns the best trade for amount against currency.
	// For exact input, amount is the input and currency the output. For exact output it is the reverse.
	GetBestTrade(ctx context.Context, amount domain.CurrencyAmount, currency domain.Currency, tradeType domain.TradeType, opts ...domain.RouterOption) (*domain.SmartRouterTrade, error)
	// GetCandidateRoutes returns every route between tokenIn and tokenOut within the configured hop bound.
	GetCandidateRoutes(ctx context.Context, tokenIn, tokenOut domain.Currency, opts ...domain.RouterOption) ([]domain.Route, error)
	// GetConfig returns the router config.
	GetConfig() domain.RouterConfig
}

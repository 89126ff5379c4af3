package mocks

import (
	"context"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
)

var _ mvc.RouterUsecase = &RouterUsecaseMock{}

// RouterUsecaseMock is a mock implementation of the RouterUsecase interface
type RouterUsecaseMock struct {
	GetBestTradeFunc       func(ctx context.Context, amount domain.CurrencyAmount, currency domain.Currency, tradeType domain.TradeType, opts ...domain.RouterOption) (*domain.SmartRouterTrade, error)
	GetCandidateRoutesFunc func(ctx context.Context, tokenIn, tokenOut domain.Currency, opts ...domain.RouterOption) ([]domain.Route, error)
	GetConfigFunc          func() domain.RouterConfig
}

// GetBestTrade implements mvc.RouterUsecase.
func (m *RouterUsecaseMock) GetBestTrade(ctx context.Context, amount domain.CurrencyAmount, currency domain.Currency, tradeType domain.TradeType, opts ...domain.RouterOption) (*domain.SmartRouterTrade, error) {
	if m.GetBestTradeFunc != nil {
		return m.GetBestTradeFunc(ctx, amount, currency, tradeType, opts...)
	}
	panic("unimplemented")
}

// GetCandidateRoutes implements mvc.RouterUsecase.
func (m *RouterUsecaseMock) GetCandidateRoutes(ctx context.Context, tokenIn, tokenOut domain.Currency, opts ...domain.RouterOption) ([]domain.Route, error) {
	if m.GetCandidateRoutesFunc != nil {
		return m.GetCandidateRoutesFunc(ctx, tokenIn, tokenOut, opts...)
	}
	panic("unimplemented")
}

// GetConfig implements mvc.RouterUsecase.
func (m *RouterUsecaseMock) GetConfig() domain.RouterConfig {
	if m.GetConfigFunc != nil {
		return m.GetConfigFunc()
	}
	return domain.RouterConfig{}
}

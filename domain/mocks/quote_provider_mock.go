package mocks

import (
	"context"
	"sync/atomic"

	"github.com/plunderswap/sor/domain"
)

// QuoteProviderMock is a mock implementation of domain.QuoteProvider that counts its calls.
type QuoteProviderMock struct {
	GetRouteQuoteFunc func(ctx context.Context, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error)

	calls atomic.Int32
}

var _ domain.QuoteProvider = &QuoteProviderMock{}

// GetRouteQuote implements domain.QuoteProvider.
func (m *QuoteProviderMock) GetRouteQuote(ctx context.Context, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error) {
	m.calls.Add(1)
	if m.GetRouteQuoteFunc != nil {
		return m.GetRouteQuoteFunc(ctx, route, amount, tradeType, blockNumber)
	}
	panic("unimplemented")
}

// Calls returns the number of GetRouteQuote calls.
func (m *QuoteProviderMock) Calls() int {
	return int(m.calls.Load())
}

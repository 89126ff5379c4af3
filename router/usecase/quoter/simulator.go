package quoter

import (
	"context"

	"github.com/plunderswap/sor/domain"
)

// simulatedRoute is a route that can simulate swaps through its pools.
type simulatedRoute interface {
	domain.Route
	CalculateTokenOutByTokenIn(tokenIn domain.CurrencyAmount) (domain.RouteQuote, error)
	CalculateTokenInByTokenOut(tokenOut domain.CurrencyAmount) (domain.RouteQuote, error)
}

type simulatorQuoteProvider struct{}

var _ domain.QuoteProvider = &simulatorQuoteProvider{}

// NewSimulatorQuoteProvider returns a quote provider that simulates swaps on the pool snapshots
// of the route. The block number is carried by the pools themselves.
func NewSimulatorQuoteProvider() domain.QuoteProvider {
	return &simulatorQuoteProvider{}
}

// GetRouteQuote implements domain.QuoteProvider.
func (s *simulatorQuoteProvider) GetRouteQuote(ctx context.Context, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error) {
	if err := ctx.Err(); err != nil {
		return domain.RouteQuote{}, err
	}

	r, ok := route.(simulatedRoute)
	if !ok {
		return domain.RouteQuote{}, domain.UnsupportedRouteError{RouteID: route.ID(), Reason: "route cannot be simulated"}
	}

	if tradeType == domain.TradeTypeExactOutput {
		return r.CalculateTokenInByTokenOut(amount)
	}
	return r.CalculateTokenOutByTokenIn(amount)
}

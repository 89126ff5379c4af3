package quoter

import (
	"context"
	"errors"

	"github.com/plunderswap/sor/domain"
)

type fallbackQuoteProvider struct {
	primary  domain.QuoteProvider
	fallback domain.QuoteProvider
}

var _ domain.QuoteProvider = &fallbackQuoteProvider{}

// NewFallbackQuoteProvider quotes with primary and falls back to fallback for the routes
// primary does not support. Other errors of primary are returned as is.
func NewFallbackQuoteProvider(primary, fallback domain.QuoteProvider) domain.QuoteProvider {
	return &fallbackQuoteProvider{primary: primary, fallback: fallback}
}

// GetRouteQuote implements domain.QuoteProvider.
func (f *fallbackQuoteProvider) GetRouteQuote(ctx context.Context, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error) {
	quote, err := f.primary.GetRouteQuote(ctx, route, amount, tradeType, blockNumber)
	var unsupportedErr domain.UnsupportedRouteError
	if err != nil && errors.As(err, &unsupportedErr) {
		return f.fallback.GetRouteQuote(ctx, route, amount, tradeType, blockNumber)
	}
	return quote, err
}

package quoter

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/plunderswap/sor/domain"
)

type rateLimitedQuoteProvider struct {
	next    domain.QuoteProvider
	limiter *rate.Limiter
}

var _ domain.QuoteProvider = &rateLimitedQuoteProvider{}

// NewRateLimitedQuoteProvider bounds the request rate of next to requestsPerSecond with the given burst.
// A non-positive rate returns next unchanged.
func NewRateLimitedQuoteProvider(next domain.QuoteProvider, requestsPerSecond float64, burst int) domain.QuoteProvider {
	if requestsPerSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedQuoteProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// GetRouteQuote implements domain.QuoteProvider.
// Waiting for a token honors the cancellation of ctx.
func (r *rateLimitedQuoteProvider) GetRouteQuote(ctx context.Context, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.RouteQuote{}, ctxErr
		}
		return domain.RouteQuote{}, fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.GetRouteQuote(ctx, route, amount, tradeType, blockNumber)
}

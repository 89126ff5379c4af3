package usecase

import (
	"context"
	"fmt"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/workerpool"
	"github.com/plunderswap/sor/log"
)

// DefaultMaxConcurrentQuotes bounds the in-flight quote requests of a single assembler call.
const DefaultMaxConcurrentQuotes = 16

var (
	quoteRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: domain.SORQuoteRequestsMetricName,
			Help: "Total number of quote requests issued to the quote provider",
		},
		[]string{"trade_type", "route_type"},
	)
	quoteErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: domain.SORQuoteErrorsMetricName,
			Help: "Total number of failed quote requests",
		},
		[]string{"trade_type", "route_type"},
	)
)

func init() {
	prometheus.MustRegister(quoteRequestsCounter)
	prometheus.MustRegister(quoteErrorsCounter)
}

// RoutesWithQuoteParams are the inputs of GetRoutesWithValidQuote.
type RoutesWithQuoteParams struct {
	// Amount is the fixed side of the trade: input for exact input, output for exact output.
	Amount              domain.CurrencyAmount
	Routes              []domain.Route
	TradeType           domain.TradeType
	DistributionPercent int
	BlockNumber         uint64

	QuoteProvider domain.QuoteProvider
	// GasModel is optional. Nil charges no gas.
	GasModel domain.GasModel

	// QuoterOptimization issues one batch of quotes per percent, smallest first.
	QuoterOptimization  bool
	MaxConcurrentQuotes int

	Logger log.Logger
}

// GetDistributionPercents returns d, 2d, ..., 100.
// Returns ErrInvalidDistributionPercent if d is not in (0, 100] or does not divide 100.
func GetDistributionPercents(distributionPercent int) ([]uint8, error) {
	if distributionPercent <= 0 || distributionPercent > 100 || 100%distributionPercent != 0 {
		return nil, fmt.Errorf("%w: got (%d)", domain.ErrInvalidDistributionPercent, distributionPercent)
	}

	percents := make([]uint8, 0, 100/distributionPercent)
	for p := distributionPercent; p <= 100; p += distributionPercent {
		percents = append(percents, uint8(p))
	}
	return percents, nil
}

// GetRoutesWithValidQuote quotes every route at every distribution percent of the amount.
// Slices are floor(amount * percent / 100); zero slices are skipped.
// Failed and zero quotes are dropped. Mixed routes are never quoted for exact output.
// Quote requests run with bounded concurrency. Once ctx is done no new request is issued
// and an error wrapping both ErrQuoteCancelled and ctx.Err() is returned.
// Results are ordered by percent, then by route order.
func GetRoutesWithValidQuote(ctx context.Context, params RoutesWithQuoteParams) ([]domain.RouteWithValidQuote, error) {
	if params.QuoteProvider == nil {
		return nil, domain.ErrNoQuoteProvider
	}

	percents, err := GetDistributionPercents(params.DistributionPercent)
	if err != nil {
		return nil, err
	}

	logger := params.Logger
	if logger == nil {
		logger = &log.NoOpLogger{}
	}

	maxConcurrentQuotes := params.MaxConcurrentQuotes
	if maxConcurrentQuotes <= 0 {
		maxConcurrentQuotes = DefaultMaxConcurrentQuotes
	}

	routes := filterRoutesForTradeType(params.Routes, params.TradeType)

	// One batch per percent when optimizing, a single batch otherwise.
	batches := make([][]workerpool.Job[*domain.RouteWithValidQuote], 0, len(percents))
	var current []workerpool.Job[*domain.RouteWithValidQuote]
	for _, percent := range percents {
		slice := params.Amount.MulPercent(percent)
		if slice.IsZero() {
			continue
		}

		for _, r := range routes {
			current = append(current, newQuoteJob(params, r, percent, slice, logger))
		}

		if params.QuoterOptimization && len(current) > 0 {
			batches = append(batches, current)
			current = nil
		}
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	dispatcher := workerpool.NewDispatcher[*domain.RouteWithValidQuote](maxConcurrentQuotes)

	result := make([]domain.RouteWithValidQuote, 0, len(routes)*len(percents))
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewQuoteCancelledError(err)
		}

		jobResults, err := dispatcher.Run(ctx, batch)
		if err != nil {
			return nil, domain.NewQuoteCancelledError(err)
		}

		for _, jobResult := range jobResults {
			if jobResult.Err != nil || jobResult.Result == nil {
				continue
			}
			result = append(result, *jobResult.Result)
		}
	}

	return result, nil
}

// newQuoteJob returns a job quoting route for slice. The job returns a nil result for dropped quotes.
func newQuoteJob(params RoutesWithQuoteParams, r domain.Route, percent uint8, slice domain.CurrencyAmount, logger log.Logger) workerpool.Job[*domain.RouteWithValidQuote] {
	return workerpool.Job[*domain.RouteWithValidQuote]{
		Task: func(ctx context.Context) (*domain.RouteWithValidQuote, error) {
			labels := prometheus.Labels{"trade_type": params.TradeType.String(), "route_type": r.GetType().String()}
			quoteRequestsCounter.With(labels).Inc()

			quote, err := params.QuoteProvider.GetRouteQuote(ctx, r, slice, params.TradeType, params.BlockNumber)
			if err != nil {
				quoteErrorsCounter.With(labels).Inc()
				quoteErr := domain.QuoteError{RouteID: r.ID(), Percent: percent, Err: err}
				logger.Debug("dropping route quote", zap.Error(quoteErr))
				return nil, quoteErr
			}

			if quote.Amount.IsZero() || !quote.Amount.IsPositive() {
				return nil, nil
			}

			routeWithQuote := newRouteWithValidQuote(r, percent, slice, quote, params.GasModel, params.TradeType)
			return &routeWithQuote, nil
		},
	}
}

// newRouteWithValidQuote attaches gas costs to a quote.
// The quote adjusted for gas is quote - gas for exact input and quote + gas for exact output.
func newRouteWithValidQuote(r domain.Route, percent uint8, slice domain.CurrencyAmount, quote domain.RouteQuote, gasModel domain.GasModel, tradeType domain.TradeType) domain.RouteWithValidQuote {
	gasCost := domain.GasCost{
		GasEstimate:    osmomath.ZeroInt(),
		GasCostInToken: domain.ZeroCurrencyAmount(quote.Amount.Currency),
		GasCostInUSD:   osmomath.ZeroDec(),
	}
	if gasModel != nil {
		gasCost = gasModel.EstimateGasCost(r, quote.InitializedTicksCrossed)
	}

	gasInQuote := domain.NewCurrencyAmount(quote.Amount.Currency, gasCost.GasCostInToken.Amount)

	adjusted := quote.Amount.Add(gasInQuote)
	if tradeType == domain.TradeTypeExactInput {
		adjusted = quote.Amount.Sub(gasInQuote)
	}

	return domain.RouteWithValidQuote{
		Route:                   r,
		Percent:                 percent,
		Amount:                  slice,
		Quote:                   quote.Amount,
		QuoteAdjustedForGas:     adjusted,
		GasEstimate:             gasCost.GasEstimate,
		GasCostInToken:          gasInQuote,
		GasCostInUSD:            gasCost.GasCostInUSD,
		InitializedTicksCrossed: quote.InitializedTicksCrossed,
	}
}

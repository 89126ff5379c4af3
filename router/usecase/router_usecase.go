package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
)

const tracerName = "sor-router"

var (
	tracer = otel.Tracer(tracerName)

	candidateRoutesHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    domain.SORCandidateRoutesMetricName,
			Help:    "Number of candidate routes enumerated per trade",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
	)
	getBestTradeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    domain.SORGetBestTradeDurationMetricName,
			Help:    "Duration of GetBestTrade in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trade_type"},
	)
	noRouteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: domain.SORNoRouteMetricName,
			Help: "Total number of trades without a valid route",
		},
		[]string{"trade_type"},
	)
	gasPriceFetchErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: domain.SORGasPriceFetchErrorMetricName,
			Help: "Total number of failed gas price lookups",
		},
	)
)

func init() {
	prometheus.MustRegister(candidateRoutesHistogram)
	prometheus.MustRegister(getBestTradeDuration)
	prometheus.MustRegister(noRouteCounter)
	prometheus.MustRegister(gasPriceFetchErrorCounter)
}

var _ mvc.RouterUsecase = &routerUseCaseImpl{}

type routerUseCaseImpl struct {
	poolProvider  domain.PoolProvider
	quoteProvider domain.QuoteProvider
	priceOracle   domain.PriceOracle
	blockNumber   domain.BlockNumberFunc
	gasPrice      domain.GasPriceFunc

	config domain.RouterConfig
	logger log.Logger
}

// RouterUsecaseOption configures the collaborators of the router use case.
type RouterUsecaseOption func(*routerUseCaseImpl)

// WithPriceOracle sets the USD price oracle used by the gas model.
func WithPriceOracle(oracle domain.PriceOracle) RouterUsecaseOption {
	return func(r *routerUseCaseImpl) {
		r.priceOracle = oracle
	}
}

// WithBlockNumberFunc sets the default block number resolver.
func WithBlockNumberFunc(blockNumber domain.BlockNumberFunc) RouterUsecaseOption {
	return func(r *routerUseCaseImpl) {
		r.blockNumber = blockNumber
	}
}

// WithGasPriceFunc sets the default gas price resolver.
func WithGasPriceFunc(gasPrice domain.GasPriceFunc) RouterUsecaseOption {
	return func(r *routerUseCaseImpl) {
		r.gasPrice = gasPrice
	}
}

// NewRouterUsecase will create a new router use case object
func NewRouterUsecase(config domain.RouterConfig, poolProvider domain.PoolProvider, quoteProvider domain.QuoteProvider, logger log.Logger, opts ...RouterUsecaseOption) mvc.RouterUsecase {
	r := &routerUseCaseImpl{
		poolProvider:  poolProvider,
		quoteProvider: quoteProvider,
		config:        config,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetConfig implements mvc.RouterUsecase.
func (r *routerUseCaseImpl) GetConfig() domain.RouterConfig {
	return r.config
}

// GetBestTrade implements mvc.RouterUsecase.
func (r *routerUseCaseImpl) GetBestTrade(ctx context.Context, amount domain.CurrencyAmount, currency domain.Currency, tradeType domain.TradeType, opts ...domain.RouterOption) (*domain.SmartRouterTrade, error) {
	tradeConfig, err := r.tradeConfig(opts...)
	if err != nil {
		return nil, err
	}

	if r.config.QuoteTimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(r.config.QuoteTimeoutMs)*time.Millisecond)
		defer cancel()
	}

	return GetBestTrade(ctx, amount, currency, tradeType, tradeConfig, r.logger)
}

// GetCandidateRoutes implements mvc.RouterUsecase.
func (r *routerUseCaseImpl) GetCandidateRoutes(ctx context.Context, tokenIn, tokenOut domain.Currency, opts ...domain.RouterOption) ([]domain.Route, error) {
	tradeConfig, err := r.tradeConfig(opts...)
	if err != nil {
		return nil, err
	}
	tradeConfig = MergeTradeConfig(tokenOut.ChainID, tradeConfig)
	if tradeConfig.PoolProvider == nil {
		return nil, domain.ErrNoPoolProvider
	}

	blockNumber, err := resolveBlockNumber(ctx, tradeConfig.BlockNumber)
	if err != nil {
		return nil, err
	}

	pools, err := tradeConfig.PoolProvider.GetCandidatePools(ctx, domain.CandidatePoolsParams{
		CurrencyA:   tokenIn,
		CurrencyB:   tokenOut,
		BlockNumber: blockNumber,
		Protocols:   tradeConfig.AllowedPoolTypes,
	})
	if err != nil {
		return nil, err
	}

	return ComputeAllRoutes(tokenIn, tokenOut, filterPoolsByType(pools, tradeConfig.AllowedPoolTypes), tradeConfig.MaxHops), nil
}

// tradeConfig builds the per call config from the service config and the caller options.
func (r *routerUseCaseImpl) tradeConfig(opts ...domain.RouterOption) (domain.TradeConfig, error) {
	allowedPoolTypes, err := domain.ParsePoolTypes(r.config.AllowedPoolTypes)
	if err != nil {
		return domain.TradeConfig{}, err
	}

	tradeConfig := domain.TradeConfig{
		RouteConfig:             r.config.RouteConfig,
		PoolProvider:            r.poolProvider,
		QuoteProvider:           r.quoteProvider,
		BlockNumber:             r.blockNumber,
		GasPriceWei:             r.gasPrice,
		AllowedPoolTypes:        allowedPoolTypes,
		QuoterOptimization:      r.config.QuoterOptimization,
		PriceOracle:             r.priceOracle,
		MaxConcurrentQuotes:     r.config.MaxConcurrentQuotes,
		DisableDualDistribution: r.config.DisableDualDistribution,
	}
	for _, opt := range opts {
		opt(&tradeConfig)
	}
	return tradeConfig, nil
}

// MergeTradeConfig fills unset bounds with defaults and applies the chain route config on top.
// Chain values take precedence over caller values. It does not mutate its argument.
func MergeTradeConfig(chainID domain.ChainID, config domain.TradeConfig) domain.TradeConfig {
	merged := config
	merged.RouteConfig = domain.MergeRouteConfig(chainID, config.RouteConfig)
	if merged.MaxConcurrentQuotes <= 0 {
		merged.MaxConcurrentQuotes = DefaultMaxConcurrentQuotes
	}
	return merged
}

func validateTradeConfig(config domain.TradeConfig) error {
	if config.PoolProvider == nil {
		return domain.ErrNoPoolProvider
	}
	if config.QuoteProvider == nil {
		return domain.ErrNoQuoteProvider
	}
	if config.MaxHops <= 0 {
		return domain.InvalidTradeConfigError{Field: "maxHops", Reason: "must be positive"}
	}
	if config.MaxSplits <= 0 {
		return domain.InvalidTradeConfigError{Field: "maxSplits", Reason: "must be positive"}
	}
	if _, err := GetDistributionPercents(config.DistributionPercent); err != nil {
		return err
	}
	return nil
}

// GetBestTrade returns the best trade of amount against currency.
// For exact input, amount is the input and currency the output currency.
// For exact output, amount is the desired output and currency the input currency.
// Returns ErrNoValidRoute if no route combination covers the trade and an error wrapping
// ErrQuoteCancelled if ctx is cancelled before a trade is found.
func GetBestTrade(ctx context.Context, amount domain.CurrencyAmount, currency domain.Currency, tradeType domain.TradeType, config domain.TradeConfig, logger log.Logger) (_ *domain.SmartRouterTrade, err error) {
	ctx, span := tracer.Start(ctx, "routerUseCaseImpl.GetBestTrade")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	if logger == nil {
		logger = &log.NoOpLogger{}
	}

	start := time.Now()
	defer func() {
		getBestTradeDuration.WithLabelValues(tradeType.String()).Observe(time.Since(start).Seconds())
	}()

	if !amount.IsPositive() {
		return nil, domain.InvalidTradeConfigError{Field: "amount", Reason: "must be positive"}
	}
	if amount.Currency.ChainID != currency.ChainID {
		return nil, domain.InvalidTradeConfigError{Field: "currency", Reason: "currencies are on different chains"}
	}

	config = MergeTradeConfig(currency.ChainID, config)
	if err := validateTradeConfig(config); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("trade_type", tradeType.String()),
		attribute.String("amount", amount.String()),
		attribute.String("currency", currency.String()),
		attribute.Int("max_hops", config.MaxHops),
		attribute.Int("max_splits", config.MaxSplits),
		attribute.Int("distribution_percent", config.DistributionPercent),
	)

	inputCurrency, outputCurrency := amount.Currency, currency
	if tradeType == domain.TradeTypeExactOutput {
		inputCurrency, outputCurrency = currency, amount.Currency
	}

	blockNumber, err := resolveBlockNumber(ctx, config.BlockNumber)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("block_number", int64(blockNumber)))

	gasPriceWei := resolveGasPrice(ctx, config.GasPriceWei, logger)

	candidatePools, err := config.PoolProvider.GetCandidatePools(ctx, domain.CandidatePoolsParams{
		CurrencyA:   amount.Currency,
		CurrencyB:   currency,
		BlockNumber: blockNumber,
		Protocols:   config.AllowedPoolTypes,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewQuoteCancelledError(ctxErr)
		}
		return nil, fmt.Errorf("failed to get candidate pools: %w", err)
	}
	candidatePools = filterPoolsByType(candidatePools, config.AllowedPoolTypes)

	routes := ComputeAllRoutes(inputCurrency, outputCurrency, candidatePools, config.MaxHops)
	routes = filterRoutesForTradeType(routes, tradeType)
	candidateRoutesHistogram.Observe(float64(len(routes)))

	logger.Debug("candidate routes",
		zap.Stringer("input", inputCurrency),
		zap.Stringer("output", outputCurrency),
		zap.Int("pools", len(candidatePools)),
		zap.Int("routes", len(routes)),
	)

	gasModel, err := CreateGasModel(ctx, GasModelParams{
		GasPriceWei:            gasPriceWei,
		QuoteCurrency:          currency,
		QuoteCurrencyUSDPrice:  config.QuoteCurrencyUSDPrice,
		NativeCurrencyUSDPrice: config.NativeCurrencyUSDPrice,
		PriceOracle:            config.PriceOracle,
		PoolProvider:           config.PoolProvider,
		BlockNumber:            blockNumber,
		Logger:                 logger,
	})
	if err != nil {
		return nil, err
	}

	quotes, err := getQuotesForDistributions(ctx, amount, routes, tradeType, blockNumber, gasModel, config, logger)
	if err != nil {
		return nil, err
	}

	var bestRoutes *domain.BestRoutes
	if selection, ok := selectBestRouteCombination(quotes, tradeType, config.MaxSplits); ok {
		selection = requoteWithDust(ctx, amount, selection, tradeType, blockNumber, gasModel, config.QuoteProvider, logger)
		bestRoutes = buildBestRoutes(amount, currency, selection, tradeType)
	}
	if bestRoutes == nil || bestRoutes.OutputAmount.IsZero() || bestRoutes.InputAmount.IsZero() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewQuoteCancelledError(ctxErr)
		}
		noRouteCounter.WithLabelValues(tradeType.String()).Inc()
		return nil, domain.ErrNoValidRoute
	}

	return &domain.SmartRouterTrade{
		TradeType:        tradeType,
		Routes:           bestRoutes.Routes,
		GasEstimate:      bestRoutes.GasEstimate,
		GasEstimateInUSD: bestRoutes.GasEstimateInUSD,
		InputAmount:      bestRoutes.InputAmount,
		OutputAmount:     bestRoutes.OutputAmount,
		BlockNumber:      blockNumber,
	}, nil
}

// requoteWithDust quotes the largest route of selection again with the rounding dust of the
// slices added to its fixed amount. The selection is returned unchanged when there is no dust
// or the quote fails.
func requoteWithDust(ctx context.Context, amount domain.CurrencyAmount, selection []domain.RouteWithValidQuote, tradeType domain.TradeType, blockNumber uint64, gasModel domain.GasModel, quoteProvider domain.QuoteProvider, logger log.Logger) []domain.RouteWithValidQuote {
	if len(selection) == 0 || quoteProvider == nil {
		return selection
	}

	sliceSum := osmomath.ZeroInt()
	for _, q := range selection {
		sliceSum = sliceSum.Add(q.Amount.Amount)
	}
	dust := amount.Amount.Sub(sliceSum)
	if !dust.IsPositive() {
		return selection
	}

	largest := selection[0]
	fixed := domain.NewCurrencyAmount(largest.Amount.Currency, largest.Amount.Amount.Add(dust))
	quote, err := quoteProvider.GetRouteQuote(ctx, largest.Route, fixed, tradeType, blockNumber)
	if err != nil {
		logger.Warn("failed to quote the largest route with dust",
			zap.String("route", largest.Route.ID()),
			zap.Stringer("amount", fixed),
			zap.Error(err),
		)
		return selection
	}

	requoted := make([]domain.RouteWithValidQuote, len(selection))
	copy(requoted, selection)
	requoted[0] = newRouteWithValidQuote(largest.Route, largest.Percent, fixed, quote, gasModel, tradeType)
	return requoted
}

// getQuotesForDistributions quotes the routes at every distribution strategy concurrently.
// Strategies are [100, d] when a direct route exists, [d] otherwise.
// A strategy whose percents are all quoted by another one is not dispatched,
// and quotes present in more than one strategy are kept once.
func getQuotesForDistributions(ctx context.Context, amount domain.CurrencyAmount, routes []domain.Route, tradeType domain.TradeType, blockNumber uint64, gasModel domain.GasModel, config domain.TradeConfig, logger log.Logger) ([]domain.RouteWithValidQuote, error) {
	distributions := []int{config.DistributionPercent}
	if hasDirectRoute(routes) && !config.DisableDualDistribution && !coversFullAmount(config.DistributionPercent) {
		distributions = []int{100, config.DistributionPercent}
	}

	results := make([][]domain.RouteWithValidQuote, len(distributions))

	g := new(errgroup.Group)
	for i, distributionPercent := range distributions {
		i, distributionPercent := i, distributionPercent
		g.Go(func() error {
			quotes, err := GetRoutesWithValidQuote(ctx, RoutesWithQuoteParams{
				Amount:              amount,
				Routes:              routes,
				TradeType:           tradeType,
				DistributionPercent: distributionPercent,
				BlockNumber:         blockNumber,
				QuoteProvider:       config.QuoteProvider,
				GasModel:            gasModel,
				QuoterOptimization:  config.QuoterOptimization,
				MaxConcurrentQuotes: config.MaxConcurrentQuotes,
				Logger:              logger,
			})
			if err != nil {
				return err
			}
			results[i] = quotes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	quotes := make([]domain.RouteWithValidQuote, 0)
	for _, strategyQuotes := range results {
		for _, q := range strategyQuotes {
			key := fmt.Sprintf("%s@%d", q.Route.ID(), q.Percent)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

// coversFullAmount reports whether the percents of distributionPercent include 100.
func coversFullAmount(distributionPercent int) bool {
	percents, err := GetDistributionPercents(distributionPercent)
	if err != nil {
		return false
	}
	return percents[len(percents)-1] == 100
}

func resolveBlockNumber(ctx context.Context, blockNumber domain.BlockNumberFunc) (uint64, error) {
	if blockNumber == nil {
		return 0, nil
	}
	resolved, err := blockNumber(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, domain.NewQuoteCancelledError(ctxErr)
		}
		return 0, fmt.Errorf("failed to resolve block number: %w", err)
	}
	return resolved, nil
}

// resolveGasPrice returns the gas price or a nil Int when it is unknown.
func resolveGasPrice(ctx context.Context, gasPrice domain.GasPriceFunc, logger log.Logger) (result osmomath.Int) {
	if gasPrice == nil {
		return result
	}
	resolved, err := gasPrice(ctx)
	if err != nil {
		gasPriceFetchErrorCounter.Inc()
		logger.Warn("failed to get gas price, gas costs are unknown", zap.Error(err))
		return result
	}
	return resolved
}

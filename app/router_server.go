package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	chaininfoclient "github.com/plunderswap/sor/chaininfo/client"
	chaininforepo "github.com/plunderswap/sor/chaininfo/repository"
	chaininfousecase "github.com/plunderswap/sor/chaininfo/usecase"
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	"github.com/plunderswap/sor/middleware"
	poolshttpdelivery "github.com/plunderswap/sor/pools/delivery/http"
	poolsrepo "github.com/plunderswap/sor/pools/repository"
	poolsusecase "github.com/plunderswap/sor/pools/usecase"
	routerhttpdelivery "github.com/plunderswap/sor/router/delivery/http"
	routerusecase "github.com/plunderswap/sor/router/usecase"
	"github.com/plunderswap/sor/router/usecase/quoter"
	"github.com/plunderswap/sor/sqsutil/datafetchers"
	systemhttpdelivery "github.com/plunderswap/sor/system/delivery/http"
	tokenshttpdelivery "github.com/plunderswap/sor/tokens/delivery/http"
	tokensusecase "github.com/plunderswap/sor/tokens/usecase"
	"github.com/plunderswap/sor/tokens/usecase/pricing"
	chainpricing "github.com/plunderswap/sor/tokens/usecase/pricing/chain"
)

const tracerName = "sor-server"

// RouterServer encapsulates the smart order router service: the chain data it polls
// and the HTTP endpoints it exposes.
type RouterServer interface {
	GetPoolsUsecase() mvc.PoolsUsecase
	GetTokensUsecase() mvc.TokensUsecase
	GetRouterUsecase() mvc.RouterUsecase
	GetLogger() log.Logger
	Shutdown(context.Context) error
	Start(context.Context) error
}

type routerServer struct {
	poolsUsecase  mvc.PoolsUsecase
	tokensUsecase mvc.TokensUsecase
	routerUsecase mvc.RouterUsecase

	chainClient chaininfoclient.Client
	// stopped on shutdown
	closers []func()

	e          *echo.Echo
	sorAddress string
	logger     log.Logger
}

// GetPoolsUsecase implements RouterServer.
func (s *routerServer) GetPoolsUsecase() mvc.PoolsUsecase {
	return s.poolsUsecase
}

// GetTokensUsecase implements RouterServer.
func (s *routerServer) GetTokensUsecase() mvc.TokensUsecase {
	return s.tokensUsecase
}

// GetRouterUsecase implements RouterServer.
func (s *routerServer) GetRouterUsecase() mvc.RouterUsecase {
	return s.routerUsecase
}

// GetLogger implements RouterServer.
func (s *routerServer) GetLogger() log.Logger {
	return s.logger
}

// Shutdown implements RouterServer.
func (s *routerServer) Shutdown(ctx context.Context) error {
	for _, closeFn := range s.closers {
		closeFn()
	}
	if s.chainClient != nil {
		s.chainClient.Close()
	}
	return s.e.Shutdown(ctx)
}

// Start implements RouterServer.
func (s *routerServer) Start(context.Context) error {
	s.logger.Info("Starting smart order router", zap.String("address", s.sorAddress))
	err := s.e.Start(s.sorAddress)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// NewRouterServer creates a new smart order router server.
func NewRouterServer(ctx context.Context, config domain.Config, logger log.Logger) (RouterServer, error) {
	if config.Router == nil || config.Pools == nil {
		return nil, errors.New("router and pools configs are required")
	}

	server := &routerServer{
		sorAddress: config.ServerAddress,
		logger:     logger,
	}

	// Setup echo server
	e := echo.New()
	e.HideBanner = true
	middleware := middleware.InitMiddleware(config.CORS)
	e.Use(middleware.CORS)
	e.Use(middleware.InstrumentMiddleware)
	e.Use(middleware.TraceWithParamsMiddleware(tracerName))
	e.Use(middleware.TimeoutMiddleware(time.Duration(config.ServerTimeoutDurationSecs) * time.Second))
	server.e = e

	// Initialize tokens usecase. The token list is optional.
	tokensUsecase := tokensusecase.NewTokensUsecase(logger)
	if config.Tokens != nil && config.Tokens.TokenListURL != "" {
		tokenListFetcher := tokensusecase.NewTokenListFetcher(config.Tokens.TokenListURL, tokensusecase.GetTokensFromTokenList, tokensUsecase.LoadTokens)
		refetchInterval := time.Duration(config.Tokens.RefetchIntervalSecs) * time.Second
		if err := server.startTokenListFetcher(config.Tokens.TokenListURL, tokenListFetcher, refetchInterval); err != nil {
			return nil, err
		}
	}
	server.tokensUsecase = tokensUsecase

	// Initialize pools repository and usecase
	poolsRepository := poolsrepo.New(poolsrepo.DefaultMaxSnapshots)
	poolsUsecase, err := poolsusecase.NewPoolsUsecase(config.Pools, config.ChainID, poolsRepository, logger)
	if err != nil {
		return nil, err
	}
	if config.Pools.SnapshotPath != "" {
		if err := poolsusecase.LoadPoolsSnapshot(ctx, poolsUsecase, config.Pools.SnapshotPath, logger); err != nil {
			return nil, fmt.Errorf("failed to load pools snapshot: %w", err)
		}
		registerPoolCurrencies(ctx, poolsUsecase, tokensUsecase)
	}
	server.poolsUsecase = poolsUsecase

	// Initialize price oracle
	pricingConfig := domain.PricingConfig{DefaultSource: domain.StaticPricingSourceType}
	if config.Pricing != nil {
		pricingConfig = *config.Pricing
	}
	priceOracle, err := pricing.NewPriceOracle(pricingConfig, config.ChainID, tokensUsecase, logger)
	if err != nil {
		return nil, err
	}

	routerOpts := []routerusecase.RouterUsecaseOption{routerusecase.WithPriceOracle(priceOracle)}

	// Chain info, gas price and on-chain quotes require a JSON-RPC endpoint.
	var (
		chainInfoUsecase mvc.ChainInfoUsecase
		quoteProvider    = quoter.NewSimulatorQuoteProvider()
	)
	if config.ChainRPCEndpoint != "" {
		chainClient, err := chaininfoclient.NewClient(ctx, config.ChainRPCEndpoint)
		if err != nil {
			return nil, err
		}
		server.chainClient = chainClient

		// If fails, it means that the node is not reachable
		rpcChainID, err := chainClient.ChainID(ctx)
		if err != nil {
			return nil, err
		}
		if rpcChainID.Uint64() != uint64(config.ChainID) {
			return nil, fmt.Errorf("chain ID mismatch: configured %d, node reports %s", config.ChainID, rpcChainID)
		}

		ciUsecase := chaininfousecase.NewChainInfoUsecase(chaininforepo.New(), config.MaxHeightUpdateDeltaSecs)
		server.startHeightFetcher(config.HeightRefetchIntervalMs, chainClient, ciUsecase)
		chainInfoUsecase = ciUsecase
		routerOpts = append(routerOpts, routerusecase.WithBlockNumberFunc(ciUsecase.BlockNumberFunc()))

		gasPriceOracle := chainpricing.NewGasPriceOracle(chainClient, intervalOrDefault(config.GasPriceRefetchIntervalMs, 5*time.Second), logger)
		server.closers = append(server.closers, gasPriceOracle.Close)
		routerOpts = append(routerOpts, routerusecase.WithGasPriceFunc(gasPriceOracle.GasPriceFunc()))

		if config.Router.OnChainQuotes {
			quoteProvider, err = newOnChainQuoteProvider(chainClient, config.Contracts, quoteProvider)
			if err != nil {
				return nil, err
			}
		}
	}

	if config.Router.QuoteRateLimitRPS > 0 {
		quoteProvider = quoter.NewRateLimitedQuoteProvider(quoteProvider, config.Router.QuoteRateLimitRPS, config.Router.QuoteRateLimitBurst)
	}

	// Initialize router usecase
	routerUsecase := routerusecase.NewRouterUsecase(*config.Router, poolsUsecase, quoteProvider, logger, routerOpts...)
	server.routerUsecase = routerUsecase

	// HTTP handlers
	poolshttpdelivery.NewPoolsHandler(e, poolsUsecase)
	systemhttpdelivery.NewSystemHandler(e, config, logger, chainInfoUsecase, poolsUsecase)
	tokenshttpdelivery.NewTokensHandler(e, tokensUsecase, priceOracle, config.ChainID, logger)
	routerhttpdelivery.NewRouterHandler(e, routerUsecase, tokensUsecase, config.ChainID, logger)

	return server, nil
}

// newOnChainQuoteProvider quotes through the quoter contracts and falls back to local simulation.
func newOnChainQuoteProvider(chainClient chaininfoclient.Client, contracts *domain.ContractsConfig, simulator domain.QuoteProvider) (domain.QuoteProvider, error) {
	if contracts == nil {
		return nil, errors.New("contracts config is required for on-chain quotes")
	}

	quoterV2Address, ok := domain.ParseAddress(contracts.QuoterV2Address)
	if !ok {
		return nil, fmt.Errorf("invalid quoter v2 address (%s)", contracts.QuoterV2Address)
	}

	var v2RouterAddress common.Address
	if contracts.V2RouterAddress != "" {
		v2RouterAddress, ok = domain.ParseAddress(contracts.V2RouterAddress)
		if !ok {
			return nil, fmt.Errorf("invalid v2 router address (%s)", contracts.V2RouterAddress)
		}
	}

	onChain, err := quoter.NewOnChainQuoteProvider(chainClient, quoterV2Address, v2RouterAddress)
	if err != nil {
		return nil, err
	}

	return quoter.NewFallbackQuoteProvider(onChain, simulator), nil
}

// startTokenListFetcher loads the token list once and then refetches it in the background.
// A non positive refetchInterval disables the refetch.
func (s *routerServer) startTokenListFetcher(tokenListURL string, loader domain.TokenRegistryLoader, refetchInterval time.Duration) error {
	if err := loader.FetchAndUpdateTokens(); err != nil {
		return fmt.Errorf("failed to fetch token list: %w", err)
	}

	if refetchInterval <= 0 {
		return nil
	}

	refetchFn := func() (struct{}, error) {
		if err := loader.FetchAndUpdateTokens(); err != nil {
			s.logger.Error("failed to refetch token list", zap.String("url", tokenListURL), zap.Error(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	fetcher := datafetchers.NewIntervalFetcher(refetchFn, refetchInterval)
	s.closers = append(s.closers, fetcher.Close)
	return nil
}

// startHeightFetcher polls the latest block height into the chain info usecase.
func (s *routerServer) startHeightFetcher(intervalMs int, chainClient chaininfoclient.Client, chainInfoUsecase mvc.ChainInfoUsecase) {
	interval := intervalOrDefault(intervalMs, 2*time.Second)

	updateFn := func() (uint64, error) {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		height, err := chainClient.GetLatestHeight(ctx)
		if err != nil {
			s.logger.Error("failed to fetch latest height", zap.Error(err))
			return 0, err
		}

		chainInfoUsecase.StoreLatestHeight(height)
		return height, nil
	}

	fetcher := datafetchers.NewIntervalFetcher(updateFn, interval)
	s.closers = append(s.closers, fetcher.Close)
}

// registerPoolCurrencies makes every pool token resolvable by address and symbol.
func registerPoolCurrencies(ctx context.Context, poolsUsecase mvc.PoolsUsecase, tokensUsecase mvc.TokensUsecase) {
	allPools, err := poolsUsecase.GetAllPools(ctx)
	if err != nil {
		return
	}

	currencies := make([]domain.Currency, 0, 2*len(allPools))
	for _, pool := range allPools {
		currencies = append(currencies, pool.GetCurrency0(), pool.GetCurrency1())
	}
	tokensUsecase.RegisterCurrencies(currencies)
}

func intervalOrDefault(intervalMs int, defaultInterval time.Duration) time.Duration {
	if intervalMs <= 0 {
		return defaultInterval
	}
	return time.Duration(intervalMs) * time.Millisecond
}

package routertesting

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	poolsrepo "github.com/plunderswap/sor/pools/repository"
	poolsusecase "github.com/plunderswap/sor/pools/usecase"
	routerusecase "github.com/plunderswap/sor/router/usecase"
	"github.com/plunderswap/sor/router/usecase/quoter"
)

type RouterTestHelper struct {
	suite.Suite
}

// MockMainnetState is the pool universe read from the snapshot files.
type MockMainnetState struct {
	BlockNumber uint64
	Pools       []domain.Pool
}

type MockMainnetUsecase struct {
	Pools  mvc.PoolsUsecase
	Router mvc.RouterUsecase
}

const (
	// TestChainID is the local development chain. It has no route config override.
	TestChainID = domain.ChainIDLocal

	DefaultBlockNumber = uint64(100)

	relativePathMainnetFiles = "/router/usecase/routertesting/parsing/"
	poolsFileName            = "zilliqa_pools.json"
)

var (
	// Currencies of the test chain.
	ETH  = domain.NativeCurrency(TestChainID)
	WETH = ETH.Wrapped()
	USDC = domain.NewToken(TestChainID, common.HexToAddress("0x00000000000000000000000000000000000000c1"), 6, "USDC")
	USDT = domain.NewToken(TestChainID, common.HexToAddress("0x00000000000000000000000000000000000000c2"), 6, "USDT")
	DAI  = domain.NewToken(TestChainID, common.HexToAddress("0x00000000000000000000000000000000000000c3"), 18, "DAI")

	// Generic 18 decimal test tokens.
	TokenA = testToken(0xa1, "A")
	TokenB = testToken(0xa2, "B")
	TokenC = testToken(0xa3, "C")
	TokenD = testToken(0xa4, "D")
	TokenE = testToken(0xa5, "E")

	// Zilliqa mainnet currencies used by the snapshot.
	ZIL   = domain.NativeCurrency(domain.ChainIDZilliqa)
	WZIL  = ZIL.Wrapped()
	ZUSDC = domain.NewToken(domain.ChainIDZilliqa, common.HexToAddress("0xD8b73cEd1B16C047048f2c5EA42233DA33168198"), 6, "USDC")
	ZUSDT = domain.NewToken(domain.ChainIDZilliqa, common.HexToAddress("0x2274005778063684fbB1BfA96a2b725dC37D75f9"), 6, "zUSDT")
	KUSD  = domain.NewToken(domain.ChainIDZilliqa, common.HexToAddress("0xE9df5b4b1134A3aadf693Db999786699B016239e"), 6, "kUSD")
	PZIL  = domain.NewToken(domain.ChainIDZilliqa, common.HexToAddress("0xc85b0db68467dede96A7087F4d4C47731555cA7A"), 6, "pZIL")

	// One whole unit of an 18 decimal token.
	OneUnit = osmomath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	DefaultRouterConfig = domain.RouterConfig{
		RouteConfig: domain.RouteConfig{
			MaxHops:             3,
			MaxSplits:           3,
			DistributionPercent: 25,
		},
		MaxConcurrentQuotes: 8,
	}

	DefaultPoolsConfig = domain.PoolsConfig{
		CacheSize:          100,
		CacheExpirySeconds: 60,
	}

	// The files below are set in init()
	projectRoot              = ""
	absolutePathToStateFiles = ""
)

func init() {
	var err error
	projectRoot, err = findProjectRoot()
	if err != nil {
		panic(err)
	}

	absolutePathToStateFiles = projectRoot + relativePathMainnetFiles
}

// findProjectRoot starts from the current dir and goes up until it finds go.mod,
// returning the absolute directory containing it.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Abs(dir)
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return "", fmt.Errorf("project root not found")
}

func testToken(addressByte byte, symbol string) domain.Currency {
	var address common.Address
	address[common.AddressLength-1] = addressByte
	return domain.NewToken(TestChainID, address, 18, symbol)
}

// Units returns amount whole units of currency in raw terms.
func Units(currency domain.Currency, amount int64) osmomath.Int {
	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(currency.Decimals)), nil)
	return osmomath.NewIntFromBigInt(multiplier.Mul(multiplier, big.NewInt(amount)))
}

// NewAmount returns amount whole units of currency.
func NewAmount(currency domain.Currency, amount int64) domain.CurrencyAmount {
	return domain.NewCurrencyAmount(currency, Units(currency, amount))
}

// MainnetPoolsPath returns the path of the Zilliqa pools snapshot.
func MainnetPoolsPath() string {
	return absolutePathToStateFiles + poolsFileName
}

// MustReadFile reads a file and fails the test if there is an error.
func (s *RouterTestHelper) MustReadFile(path string) string {
	b, err := os.ReadFile(path)
	s.Require().NoError(err)
	return string(b)
}

// SetupMainnetState reads the Zilliqa pools snapshot.
func (s *RouterTestHelper) SetupMainnetState() MockMainnetState {
	snapshot, err := poolsusecase.ReadPoolsSnapshot(MainnetPoolsPath())
	s.Require().NoError(err)

	pools, errs := s.NewPools(snapshot)
	s.Require().Empty(errs)

	return MockMainnetState{
		BlockNumber: snapshot.BlockNumber,
		Pools:       pools,
	}
}

// SetupRouterAndPoolsUsecase sets up the pools and router use cases over the given state
// with a simulating quote provider.
func (s *RouterTestHelper) SetupRouterAndPoolsUsecase(mainnetState MockMainnetState, opts ...MainnetTestOption) MockMainnetUsecase {
	options := &MainnetTestOptions{
		RouterConfig:  DefaultRouterConfig,
		PoolsConfig:   DefaultPoolsConfig,
		ChainID:       domain.ChainIDZilliqa,
		QuoteProvider: quoter.NewSimulatorQuoteProvider(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var (
		logger log.Logger = &log.NoOpLogger{}
		err    error
	)
	if options.IsLoggerEnabled {
		logger, err = log.NewLogger(false, "", "debug")
		s.Require().NoError(err)
	}

	poolsUsecase, err := poolsusecase.NewPoolsUsecase(&options.PoolsConfig, options.ChainID, poolsrepo.New(0), logger)
	s.Require().NoError(err)

	err = poolsUsecase.StorePools(context.Background(), mainnetState.BlockNumber, mainnetState.Pools)
	s.Require().NoError(err)

	routerUsecase := routerusecase.NewRouterUsecase(
		options.RouterConfig,
		poolsUsecase,
		options.QuoteProvider,
		logger,
		routerusecase.WithBlockNumberFunc(domain.StaticBlockNumber(mainnetState.BlockNumber)),
		routerusecase.WithGasPriceFunc(domain.StaticGasPrice(options.GasPriceWei)),
		routerusecase.WithPriceOracle(options.PriceOracle),
	)

	return MockMainnetUsecase{
		Pools:  poolsUsecase,
		Router: routerUsecase,
	}
}

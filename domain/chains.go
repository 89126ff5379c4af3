package domain

import "github.com/ethereum/go-ethereum/common"

const (
	ChainIDZilliqa         ChainID = 32769
	ChainIDZilliqaTestnet  ChainID = 33101
	ChainIDZQ2ProtoMainnet ChainID = 32770
	ChainIDZQ2ProtoTestnet ChainID = 33103
	ChainIDBSC             ChainID = 56
	ChainIDBSCTestnet      ChainID = 97
	// ChainIDLocal is a local development chain. It has no route config override.
	ChainIDLocal ChainID = 1337
)

const (
	DefaultMaxHops             = 2
	DefaultMaxSplits           = 2
	DefaultDistributionPercent = 25
)

// RouteConfig holds the search bounds of a single trade.
type RouteConfig struct {
	MaxHops             int `mapstructure:"max-hops" json:"maxHops"`
	MaxSplits           int `mapstructure:"max-splits" json:"maxSplits"`
	DistributionPercent int `mapstructure:"distribution-percent" json:"distributionPercent"`
}

var (
	// sparse liquidity: coarse slices, few splits
	sparseLiquidityRouteConfig = RouteConfig{MaxHops: 2, MaxSplits: 2, DistributionPercent: 25}
	// dense liquidity: fine slices, deeper search
	denseLiquidityRouteConfig = RouteConfig{MaxHops: 3, MaxSplits: 4, DistributionPercent: 5}
)

// RouteConfigByChain overrides route search bounds per chain.
// Values here take precedence over caller supplied values.
var RouteConfigByChain = map[ChainID]RouteConfig{
	ChainIDZilliqa:         sparseLiquidityRouteConfig,
	ChainIDZilliqaTestnet:  sparseLiquidityRouteConfig,
	ChainIDZQ2ProtoMainnet: sparseLiquidityRouteConfig,
	ChainIDZQ2ProtoTestnet: sparseLiquidityRouteConfig,
	ChainIDBSC:             denseLiquidityRouteConfig,
	ChainIDBSCTestnet:      denseLiquidityRouteConfig,
}

// WrappedNativeByChain maps a chain to the ERC20 wrapper of its native coin.
var WrappedNativeByChain = map[ChainID]Currency{
	ChainIDZilliqa:         NewToken(ChainIDZilliqa, common.HexToAddress("0x94e18aE7dd5eE57B55f30c4B63E2760c09EFb192"), 18, "WZIL"),
	ChainIDZQ2ProtoMainnet: NewToken(ChainIDZQ2ProtoMainnet, common.HexToAddress("0x94e18aE7dd5eE57B55f30c4B63E2760c09EFb192"), 18, "WZIL"),
	ChainIDBSC:             NewToken(ChainIDBSC, common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"), 18, "WBNB"),
	ChainIDLocal:           NewToken(ChainIDLocal, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), 18, "WETH"),
}

// NativeCurrencyByChain maps a chain to its native coin.
var NativeCurrencyByChain = map[ChainID]Currency{
	ChainIDZilliqa:         NewNativeCurrency(ChainIDZilliqa, 18, "ZIL"),
	ChainIDZilliqaTestnet:  NewNativeCurrency(ChainIDZilliqaTestnet, 18, "ZIL"),
	ChainIDZQ2ProtoMainnet: NewNativeCurrency(ChainIDZQ2ProtoMainnet, 18, "ZIL"),
	ChainIDZQ2ProtoTestnet: NewNativeCurrency(ChainIDZQ2ProtoTestnet, 18, "ZIL"),
	ChainIDBSC:             NewNativeCurrency(ChainIDBSC, 18, "BNB"),
	ChainIDBSCTestnet:      NewNativeCurrency(ChainIDBSCTestnet, 18, "BNB"),
	ChainIDLocal:           NewNativeCurrency(ChainIDLocal, 18, "ETH"),
}

// NativeCurrency returns the native coin for the chain.
// Unknown chains get an 18 decimal native coin.
func NativeCurrency(chainID ChainID) Currency {
	native, ok := NativeCurrencyByChain[chainID]
	if !ok {
		return NewNativeCurrency(chainID, 18, "NATIVE")
	}
	return native
}

// MergeRouteConfig applies defaults to unset fields of base and then the chain
// override on top. It is a pure function.
func MergeRouteConfig(chainID ChainID, base RouteConfig) RouteConfig {
	merged := base
	if merged.MaxHops <= 0 {
		merged.MaxHops = DefaultMaxHops
	}
	if merged.MaxSplits <= 0 {
		merged.MaxSplits = DefaultMaxSplits
	}
	if merged.DistributionPercent <= 0 {
		merged.DistributionPercent = DefaultDistributionPercent
	}

	override, ok := RouteConfigByChain[chainID]
	if !ok {
		return merged
	}
	if override.MaxHops > 0 {
		merged.MaxHops = override.MaxHops
	}
	if override.MaxSplits > 0 {
		merged.MaxSplits = override.MaxSplits
	}
	if override.DistributionPercent > 0 {
		merged.DistributionPercent = override.DistributionPercent
	}
	return merged
}

package pools

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// PoolModel is the serialized pool state read from snapshots.
// Only the fields relevant to Type are set.
type PoolModel struct {
	Address     common.Address  `json:"address"`
	Type        domain.PoolType `json:"type"`
	Token0      domain.Currency `json:"token0"`
	Token1      domain.Currency `json:"token1"`
	BlockNumber uint64          `json:"blockNumber"`

	// V2 and stable pools.
	Reserve0 osmomath.Int `json:"reserve0,omitempty"`
	Reserve1 osmomath.Int `json:"reserve1,omitempty"`
	// FeeBps is the swap fee in basis points for V2 and stable pools.
	FeeBps uint32 `json:"feeBps,omitempty"`

	// Stable pools.
	Amplification uint64 `json:"amplification,omitempty"`

	// V3 pools.
	// Fee is in hundredths of a basis point (500 = 0.05%).
	Fee          uint32       `json:"fee,omitempty"`
	SqrtPriceX96 osmomath.Int `json:"sqrtPriceX96,omitempty"`
	Liquidity    osmomath.Int `json:"liquidity,omitempty"`
	Tick         int32        `json:"tick,omitempty"`
	Ticks        []TickModel  `json:"ticks,omitempty"`
}

// TickModel is an initialized tick of a concentrated pool.
type TickModel struct {
	Index        int32        `json:"index"`
	LiquidityNet osmomath.Int `json:"liquidityNet"`
	// SqrtPriceX96 is the square root price at the tick boundary.
	SqrtPriceX96 osmomath.Int `json:"sqrtPriceX96"`
}

const (
	// DefaultV2FeeBps is the PancakeSwap V2 swap fee.
	DefaultV2FeeBps uint32 = 25
	// DefaultStableFeeBps is the stable swap fee.
	DefaultStableFeeBps uint32 = 4
	// DefaultAmplification is the stable swap amplification coefficient.
	DefaultAmplification uint64 = 1000
)

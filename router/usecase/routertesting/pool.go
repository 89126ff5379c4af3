package routertesting

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
	poolsusecase "github.com/plunderswap/sor/pools/usecase"
	"github.com/plunderswap/sor/router/usecase/pools"
)

// Concentrated pool defaults: a single position around price 1.
const (
	DefaultV3Fee       = uint32(500)
	defaultV3TickLower = int32(-100)
	defaultV3TickUpper = int32(100)
)

var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// PoolAddress returns a deterministic pool address for the given index.
func PoolAddress(i int) common.Address {
	return common.BigToAddress(big.NewInt(int64(0x10000 + i)))
}

// SqrtPriceX96 returns 2^96 * num / den.
func SqrtPriceX96(num, den int64) osmomath.Int {
	v := new(big.Int).Mul(q96, big.NewInt(num))
	return osmomath.NewIntFromBigInt(v.Quo(v, big.NewInt(den)))
}

// MustNewPool creates a pool from its model and panics on invalid models.
func MustNewPool(model pools.PoolModel) domain.Pool {
	pool, err := pools.NewPool(model)
	if err != nil {
		panic(fmt.Sprintf("invalid test pool: %v", err))
	}
	return pool
}

// MustNewV2Pool creates a constant product pool with the default fee.
func MustNewV2Pool(i int, token0, token1 domain.Currency, reserve0, reserve1 osmomath.Int) domain.Pool {
	return MustNewPool(pools.PoolModel{
		Address:     PoolAddress(i),
		Type:        domain.PoolTypeV2,
		Token0:      token0,
		Token1:      token1,
		BlockNumber: DefaultBlockNumber,
		Reserve0:    reserve0,
		Reserve1:    reserve1,
	})
}

// MustNewStablePool creates a stable swap pool with the default fee and amplification.
func MustNewStablePool(i int, token0, token1 domain.Currency, reserve0, reserve1 osmomath.Int) domain.Pool {
	return MustNewPool(pools.PoolModel{
		Address:     PoolAddress(i),
		Type:        domain.PoolTypeStable,
		Token0:      token0,
		Token1:      token1,
		BlockNumber: DefaultBlockNumber,
		Reserve0:    reserve0,
		Reserve1:    reserve1,
	})
}

// MustNewV3Pool creates a concentrated pool at price 1 with liquidity in the
// position [-100, 100] (prices ~0.990 to ~1.010).
func MustNewV3Pool(i int, token0, token1 domain.Currency, liquidity osmomath.Int) domain.Pool {
	return MustNewV3PoolWithFee(i, token0, token1, liquidity, DefaultV3Fee)
}

// MustNewV3PoolWithFee is MustNewV3Pool with the given fee tier.
func MustNewV3PoolWithFee(i int, token0, token1 domain.Currency, liquidity osmomath.Int, fee uint32) domain.Pool {
	return MustNewPool(pools.PoolModel{
		Address:      PoolAddress(i),
		Type:         domain.PoolTypeV3,
		Token0:       token0,
		Token1:       token1,
		BlockNumber:  DefaultBlockNumber,
		Fee:          fee,
		SqrtPriceX96: SqrtPriceX96(1, 1),
		Liquidity:    liquidity,
		Tick:         0,
		Ticks: []pools.TickModel{
			{Index: defaultV3TickLower, LiquidityNet: liquidity, SqrtPriceX96: SqrtPriceX96(995, 1000)},
			{Index: defaultV3TickUpper, LiquidityNet: liquidity.Neg(), SqrtPriceX96: SqrtPriceX96(1005, 1000)},
		},
	})
}

// NewPools creates the pools of a snapshot.
func (s *RouterTestHelper) NewPools(snapshot poolsusecase.PoolsSnapshot) ([]domain.Pool, []error) {
	return pools.NewPools(snapshot.Pools)
}

// ValidateRoutePools validates that the expected pools are the actual pools, in order.
func (s *RouterTestHelper) ValidateRoutePools(expectedPools []domain.Pool, actualPools []domain.Pool) {
	s.Require().Equal(len(expectedPools), len(actualPools))

	for i, expectedPool := range expectedPools {
		actualPool := actualPools[i]
		s.Require().Equal(expectedPool.GetID(), actualPool.GetID())
		s.Require().Equal(expectedPool.GetType(), actualPool.GetType())
	}
}

package pools

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// NewPool creates a routable pool from its serialized model.
// Token0 and Token1 are kept in the order of the model, which is the pool contract order.
// Returns an error if the model is inconsistent with its type.
func NewPool(model PoolModel) (domain.Pool, error) {
	if model.Token0.Equals(model.Token1) {
		return nil, fmt.Errorf("pool (%s) has identical tokens", model.Address.Hex())
	}
	if model.Token0.IsNative || model.Token1.IsNative {
		return nil, fmt.Errorf("pool (%s) must hold wrapped tokens, not native currencies", model.Address.Hex())
	}

	base := poolBase{
		address:     model.Address,
		poolType:    model.Type,
		currency0:   model.Token0,
		currency1:   model.Token1,
		blockNumber: model.BlockNumber,
	}

	switch model.Type {
	case domain.PoolTypeV2:
		reserve0, reserve1, err := reserves(model)
		if err != nil {
			return nil, err
		}
		fee := model.FeeBps
		if fee == 0 {
			fee = DefaultV2FeeBps
		}
		if fee >= bpsDenominator {
			return nil, fmt.Errorf("pool (%s) fee (%d) bps out of range", model.Address.Hex(), fee)
		}
		return &v2Pool{poolBase: base, reserve0: reserve0, reserve1: reserve1, feeBps: fee}, nil

	case domain.PoolTypeStable:
		reserve0, reserve1, err := reserves(model)
		if err != nil {
			return nil, err
		}
		fee := model.FeeBps
		if fee == 0 {
			fee = DefaultStableFeeBps
		}
		if fee >= bpsDenominator {
			return nil, fmt.Errorf("pool (%s) fee (%d) bps out of range", model.Address.Hex(), fee)
		}
		amp := model.Amplification
		if amp == 0 {
			amp = DefaultAmplification
		}
		return &stablePool{poolBase: base, reserve0: reserve0, reserve1: reserve1, feeBps: fee, amplification: amp}, nil

	case domain.PoolTypeV3:
		return newV3Pool(base, model)

	default:
		return nil, domain.InvalidPoolTypeError{PoolType: model.Type.String()}
	}
}

func reserves(model PoolModel) (osmomath.Int, osmomath.Int, error) {
	reserve0, reserve1 := model.Reserve0, model.Reserve1
	if reserve0.IsNil() {
		reserve0 = osmomath.ZeroInt()
	}
	if reserve1.IsNil() {
		reserve1 = osmomath.ZeroInt()
	}
	if reserve0.IsNegative() || reserve1.IsNegative() {
		return osmomath.Int{}, osmomath.Int{}, fmt.Errorf("pool (%s) has negative reserves", model.Address.Hex())
	}
	return reserve0, reserve1, nil
}

func newV3Pool(base poolBase, model PoolModel) (*v3Pool, error) {
	if model.SqrtPriceX96.IsNil() || !model.SqrtPriceX96.IsPositive() {
		return nil, fmt.Errorf("pool (%s) has invalid sqrt price", model.Address.Hex())
	}
	if model.Fee >= feePipsDenominator {
		return nil, fmt.Errorf("pool (%s) fee (%d) out of range", model.Address.Hex(), model.Fee)
	}

	liquidity := big.NewInt(0)
	if !model.Liquidity.IsNil() {
		if model.Liquidity.IsNegative() {
			return nil, fmt.Errorf("pool (%s) has negative liquidity", model.Address.Hex())
		}
		liquidity = model.Liquidity.BigInt()
	}

	ticks := make([]tick, 0, len(model.Ticks))
	for _, t := range model.Ticks {
		if t.SqrtPriceX96.IsNil() || !t.SqrtPriceX96.IsPositive() {
			return nil, fmt.Errorf("pool (%s) tick (%d) has invalid sqrt price", model.Address.Hex(), t.Index)
		}
		liquidityNet := big.NewInt(0)
		if !t.LiquidityNet.IsNil() {
			liquidityNet = t.LiquidityNet.BigInt()
		}
		ticks = append(ticks, tick{index: t.Index, liquidityNet: liquidityNet, sqrtPriceX96: t.SqrtPriceX96.BigInt()})
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].index < ticks[j].index })

	for i := 1; i < len(ticks); i++ {
		if ticks[i].index == ticks[i-1].index {
			return nil, fmt.Errorf("pool (%s) has duplicate tick (%d)", model.Address.Hex(), ticks[i].index)
		}
		if ticks[i].sqrtPriceX96.Cmp(ticks[i-1].sqrtPriceX96) <= 0 {
			return nil, fmt.Errorf("pool (%s) tick (%d) sqrt price is not increasing", model.Address.Hex(), ticks[i].index)
		}
	}

	return &v3Pool{
		poolBase:     base,
		fee:          model.Fee,
		sqrtPriceX96: model.SqrtPriceX96.BigInt(),
		liquidity:    liquidity,
		tick:         model.Tick,
		ticks:        ticks,
	}, nil
}

// NewPools creates pools from models, skipping and reporting the invalid ones.
func NewPools(models []PoolModel) ([]domain.Pool, []error) {
	result := make([]domain.Pool, 0, len(models))
	var errs []error
	for _, model := range models {
		pool, err := NewPool(model)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result = append(result, pool)
	}
	return result, errs
}

// FormatPoolsString returns a human readable list of pool IDs.
func FormatPoolsString(pools []domain.Pool) string {
	ids := make([]string, 0, len(pools))
	for _, pool := range pools {
		ids = append(ids, pool.String())
	}
	return strings.Join(ids, ", ")
}

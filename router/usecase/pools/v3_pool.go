package pools

import (
	"math/big"
	"sort"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// tick is an initialized tick boundary.
type tick struct {
	index        int32
	liquidityNet *big.Int
	sqrtPriceX96 *big.Int
}

// v3Pool is a concentrated liquidity pool.
// Ticks are sorted by index and their sqrt prices are strictly increasing.
type v3Pool struct {
	poolBase

	fee          uint32
	sqrtPriceX96 *big.Int
	liquidity    *big.Int
	tick         int32
	ticks        []tick
}

var _ domain.FeeTierPool = &v3Pool{}

// GetFee implements domain.FeeTierPool.
func (p *v3Pool) GetFee() uint32 {
	return p.fee
}

// CalculateTokenOutByTokenIn implements domain.Pool.
func (p *v3Pool) CalculateTokenOutByTokenIn(tokenIn domain.CurrencyAmount) (domain.SwapResult, error) {
	zeroForOne, err := p.zeroForOne(tokenIn.Currency)
	if err != nil {
		return domain.SwapResult{}, err
	}

	out := p.currency1
	if !zeroForOne {
		out = p.currency0
	}

	_, amountOut, crossed, err := p.swap(zeroForOne, tokenIn.Amount.BigInt(), true)
	if err != nil {
		return domain.SwapResult{}, err
	}

	return domain.SwapResult{
		Amount:                  domain.NewCurrencyAmountFromBigInt(out, amountOut),
		InitializedTicksCrossed: crossed,
	}, nil
}

// CalculateTokenInByTokenOut implements domain.Pool.
func (p *v3Pool) CalculateTokenInByTokenOut(tokenOut domain.CurrencyAmount) (domain.SwapResult, error) {
	outIsToken0, err := p.zeroForOne(tokenOut.Currency)
	if err != nil {
		return domain.SwapResult{}, err
	}

	// Receiving token0 means paying token1.
	zeroForOne := !outIsToken0
	in := p.currency0
	if !zeroForOne {
		in = p.currency1
	}

	amountIn, _, crossed, err := p.swap(zeroForOne, tokenOut.Amount.BigInt(), false)
	if err != nil {
		return domain.SwapResult{}, err
	}

	return domain.SwapResult{
		Amount:                  domain.NewCurrencyAmountFromBigInt(in, amountIn),
		InitializedTicksCrossed: crossed,
	}, nil
}

// swap simulates a swap without mutating the pool.
// Returns the total input including fees, the total output and the number of initialized ticks crossed.
func (p *v3Pool) swap(zeroForOne bool, amount *big.Int, exactIn bool) (*big.Int, *big.Int, uint32, error) {
	amountRemaining := new(big.Int).Set(amount)
	amountIn := big.NewInt(0)
	amountOut := big.NewInt(0)
	sqrtPrice := new(big.Int).Set(p.sqrtPriceX96)
	liquidity := new(big.Int).Set(p.liquidity)
	crossed := uint32(0)

	next := p.nextTickPosition(zeroForOne)

	for amountRemaining.Sign() > 0 {
		target := maxSqrtTarget
		if zeroForOne {
			target = minSqrtTarget
		}
		hasTick := next >= 0 && next < len(p.ticks)
		if hasTick {
			target = p.ticks[next].sqrtPriceX96
		}

		if !hasTick && liquidity.Sign() == 0 {
			return nil, nil, 0, domain.InsufficientLiquidityError{PoolID: p.GetID()}
		}

		step, ok := computeSwapStep(sqrtPrice, target, liquidity, amountRemaining, p.fee, exactIn)
		if !ok {
			return nil, nil, 0, domain.InsufficientLiquidityError{PoolID: p.GetID()}
		}

		stepIn := new(big.Int).Add(step.amountIn, step.feeAmount)
		amountIn.Add(amountIn, stepIn)
		amountOut.Add(amountOut, step.amountOut)
		if exactIn {
			amountRemaining.Sub(amountRemaining, stepIn)
		} else {
			amountRemaining.Sub(amountRemaining, step.amountOut)
		}
		sqrtPrice = step.sqrtPriceNext

		if sqrtPrice.Cmp(target) != 0 {
			break
		}

		if !hasTick {
			// Reached the price bound with input or output left over.
			if amountRemaining.Sign() > 0 {
				return nil, nil, 0, domain.InsufficientLiquidityError{PoolID: p.GetID()}
			}
			break
		}

		// Cross the tick.
		liquidityNet := p.ticks[next].liquidityNet
		if zeroForOne {
			liquidity.Sub(liquidity, liquidityNet)
			next--
		} else {
			liquidity.Add(liquidity, liquidityNet)
			next++
		}
		if liquidity.Sign() < 0 {
			return nil, nil, 0, domain.ConcentratedNoLiquidityError{PoolID: p.GetID()}
		}
		crossed++
	}

	return amountIn, amountOut, crossed, nil
}

// nextTickPosition returns the position in ticks of the first initialized tick in the swap direction.
// Moving down that is the last tick at or below the current tick; moving up the first tick above it.
func (p *v3Pool) nextTickPosition(zeroForOne bool) int {
	above := sort.Search(len(p.ticks), func(i int) bool {
		return p.ticks[i].index > p.tick
	})
	if zeroForOne {
		return above - 1
	}
	return above
}

// SpotPrice implements domain.Pool.
// The price of token0 in token1 is sqrtPrice^2 / 2^192.
func (p *v3Pool) SpotPrice(base domain.Currency) (osmomath.BigDec, error) {
	isToken0, err := p.zeroForOne(base)
	if err != nil {
		return osmomath.BigDec{}, err
	}

	priceX192 := new(big.Int).Mul(p.sqrtPriceX96, p.sqrtPriceX96)
	q192 := new(big.Int).Mul(q96, q96)
	if isToken0 {
		return ratioBigDec(priceX192, q192), nil
	}
	return ratioBigDec(q192, priceX192), nil
}

// GetLiquidity implements domain.Pool.
// Approximated by the virtual reserves of the active range.
func (p *v3Pool) GetLiquidity(currency domain.Currency) osmomath.Int {
	isToken0, err := p.zeroForOne(currency)
	if err != nil || p.liquidity.Sign() == 0 {
		return osmomath.ZeroInt()
	}
	if isToken0 {
		// L * 2^96 / sqrtPrice
		return osmomath.NewIntFromBigInt(mulDiv(p.liquidity, q96, p.sqrtPriceX96))
	}
	// L * sqrtPrice / 2^96
	return osmomath.NewIntFromBigInt(mulDiv(p.liquidity, p.sqrtPriceX96, q96))
}

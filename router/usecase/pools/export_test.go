package pools

import "math/big"

type (
	V2PoolImpl     = v2Pool
	StablePoolImpl = stablePool
	V3PoolImpl     = v3Pool
	SwapStep       = swapStep
)

var (
	Q96          = q96
	MinSqrtRatio = minSqrtRatio
	MaxSqrtRatio = maxSqrtRatio
)

func GetAmount0Delta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	return getAmount0Delta(sqrtA, sqrtB, liquidity, roundUp)
}

func GetAmount1Delta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	return getAmount1Delta(sqrtA, sqrtB, liquidity, roundUp)
}

func ComputeSwapStep(sqrtPrice, sqrtTarget, liquidity, amountRemaining *big.Int, feePips uint32, exactIn bool) (SwapStep, bool) {
	return computeSwapStep(sqrtPrice, sqrtTarget, liquidity, amountRemaining, feePips, exactIn)
}

func (s SwapStep) AmountIn() *big.Int      { return s.amountIn }
func (s SwapStep) AmountOut() *big.Int     { return s.amountOut }
func (s SwapStep) FeeAmount() *big.Int     { return s.feeAmount }
func (s SwapStep) SqrtPriceNext() *big.Int { return s.sqrtPriceNext }

func ScaleUp(amount *big.Int, decimals uint8) *big.Int {
	return scaleUp(amount, decimals)
}

func ScaleDown(amount *big.Int, decimals uint8) *big.Int {
	return scaleDown(amount, decimals)
}

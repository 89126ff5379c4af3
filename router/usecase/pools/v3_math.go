package pools

import (
	"math/big"

	"github.com/osmosis-labs/osmosis/osmomath"
)

const (
	resolution96 = 96
	// feePipsDenominator is the fee denominator of concentrated pools (hundredths of a basis point).
	feePipsDenominator = 1_000_000
)

var (
	q96           = new(big.Int).Lsh(big.NewInt(1), resolution96)
	bigFeePips    = big.NewInt(feePipsDenominator)
	bigDecScale   = new(big.Int).Exp(big.NewInt(10), big.NewInt(osmomath.BigDecPrecision), nil)
	minSqrtRatio  = big.NewInt(4295128739)
	maxSqrtRatio  = mustBigInt("1461446703485210103287273052203988822378723970342")
	minSqrtTarget = new(big.Int).Add(minSqrtRatio, big.NewInt(1))
	maxSqrtTarget = new(big.Int).Sub(maxSqrtRatio, big.NewInt(1))
)

func mustBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal: " + s)
	}
	return v
}

// ratioBigDec returns numerator / denominator with 36 decimal places.
// Raw unit prices between tokens of different decimals are often below 1e-18.
func ratioBigDec(numerator, denominator *big.Int) osmomath.BigDec {
	scaled := new(big.Int).Mul(numerator, bigDecScale)
	scaled.Quo(scaled, denominator)
	return osmomath.NewBigDecFromBigIntWithPrec(scaled, osmomath.BigDecPrecision)
}

func mulDiv(a, b, denominator *big.Int) *big.Int {
	result := new(big.Int).Mul(a, b)
	return result.Quo(result, denominator)
}

func mulDivRoundingUp(a, b, denominator *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	result, remainder := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if remainder.Sign() > 0 {
		result.Add(result, big.NewInt(1))
	}
	return result
}

func divRoundingUp(a, b *big.Int) *big.Int {
	result, remainder := new(big.Int).QuoRem(a, b, new(big.Int))
	if remainder.Sign() > 0 {
		result.Add(result, big.NewInt(1))
	}
	return result
}

func sortSqrtPrices(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// getAmount0Delta returns the token0 amount between two sqrt prices at the given liquidity.
// liquidity * 2^96 * (sqrtB - sqrtA) / (sqrtB * sqrtA)
func getAmount0Delta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	sqrtA, sqrtB = sortSqrtPrices(sqrtA, sqrtB)
	numerator1 := new(big.Int).Lsh(liquidity, resolution96)
	numerator2 := new(big.Int).Sub(sqrtB, sqrtA)

	if roundUp {
		return divRoundingUp(mulDivRoundingUp(numerator1, numerator2, sqrtB), sqrtA)
	}
	return new(big.Int).Quo(mulDiv(numerator1, numerator2, sqrtB), sqrtA)
}

// getAmount1Delta returns the token1 amount between two sqrt prices at the given liquidity.
// liquidity * (sqrtB - sqrtA) / 2^96
func getAmount1Delta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	sqrtA, sqrtB = sortSqrtPrices(sqrtA, sqrtB)
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, q96)
	}
	return mulDiv(liquidity, diff, q96)
}

func getNextSqrtPriceFromAmount0RoundingUp(sqrtPrice, liquidity, amount *big.Int, add bool) (*big.Int, bool) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), true
	}
	numerator1 := new(big.Int).Lsh(liquidity, resolution96)
	product := new(big.Int).Mul(amount, sqrtPrice)

	var denominator *big.Int
	if add {
		denominator = new(big.Int).Add(numerator1, product)
	} else {
		if numerator1.Cmp(product) <= 0 {
			return nil, false
		}
		denominator = new(big.Int).Sub(numerator1, product)
	}
	return mulDivRoundingUp(numerator1, sqrtPrice, denominator), true
}

func getNextSqrtPriceFromAmount1RoundingDown(sqrtPrice, liquidity, amount *big.Int, add bool) (*big.Int, bool) {
	shifted := new(big.Int).Lsh(amount, resolution96)
	if add {
		quotient := new(big.Int).Quo(shifted, liquidity)
		return quotient.Add(quotient, sqrtPrice), true
	}

	quotient := divRoundingUp(shifted, liquidity)
	if sqrtPrice.Cmp(quotient) <= 0 {
		return nil, false
	}
	return new(big.Int).Sub(sqrtPrice, quotient), true
}

func getNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, bool) {
	if zeroForOne {
		return getNextSqrtPriceFromAmount0RoundingUp(sqrtPrice, liquidity, amountIn, true)
	}
	return getNextSqrtPriceFromAmount1RoundingDown(sqrtPrice, liquidity, amountIn, true)
}

func getNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut *big.Int, zeroForOne bool) (*big.Int, bool) {
	if zeroForOne {
		return getNextSqrtPriceFromAmount1RoundingDown(sqrtPrice, liquidity, amountOut, false)
	}
	return getNextSqrtPriceFromAmount0RoundingUp(sqrtPrice, liquidity, amountOut, false)
}

// swapStep is the result of swapping within a single tick range.
type swapStep struct {
	sqrtPriceNext *big.Int
	amountIn      *big.Int
	amountOut     *big.Int
	feeAmount     *big.Int
}

// computeSwapStep swaps within [sqrtPrice, sqrtTarget] at constant liquidity.
// amountRemaining is the input left for exact input swaps and the output left for exact output swaps.
// The second return value is false when the liquidity cannot deliver the requested output.
func computeSwapStep(sqrtPrice, sqrtTarget, liquidity, amountRemaining *big.Int, feePips uint32, exactIn bool) (swapStep, bool) {
	zeroForOne := sqrtPrice.Cmp(sqrtTarget) >= 0
	fee := big.NewInt(int64(feePips))
	feeComplement := big.NewInt(int64(feePipsDenominator - feePips))

	var (
		next      *big.Int
		amountIn  *big.Int
		amountOut *big.Int
		ok        = true
	)

	if exactIn {
		amountRemainingLessFee := mulDiv(amountRemaining, feeComplement, bigFeePips)
		if zeroForOne {
			amountIn = getAmount0Delta(sqrtTarget, sqrtPrice, liquidity, true)
		} else {
			amountIn = getAmount1Delta(sqrtPrice, sqrtTarget, liquidity, true)
		}
		if amountRemainingLessFee.Cmp(amountIn) >= 0 {
			next = new(big.Int).Set(sqrtTarget)
		} else {
			next, ok = getNextSqrtPriceFromInput(sqrtPrice, liquidity, amountRemainingLessFee, zeroForOne)
		}
	} else {
		if zeroForOne {
			amountOut = getAmount1Delta(sqrtTarget, sqrtPrice, liquidity, false)
		} else {
			amountOut = getAmount0Delta(sqrtPrice, sqrtTarget, liquidity, false)
		}
		if amountRemaining.Cmp(amountOut) >= 0 {
			next = new(big.Int).Set(sqrtTarget)
		} else {
			next, ok = getNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountRemaining, zeroForOne)
		}
	}
	if !ok {
		return swapStep{}, false
	}

	reachedTarget := next.Cmp(sqrtTarget) == 0

	if zeroForOne {
		if !(reachedTarget && exactIn) {
			amountIn = getAmount0Delta(next, sqrtPrice, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			amountOut = getAmount1Delta(next, sqrtPrice, liquidity, false)
		}
	} else {
		if !(reachedTarget && exactIn) {
			amountIn = getAmount1Delta(sqrtPrice, next, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			amountOut = getAmount0Delta(sqrtPrice, next, liquidity, false)
		}
	}

	if !exactIn && amountOut.Cmp(amountRemaining) > 0 {
		amountOut = new(big.Int).Set(amountRemaining)
	}

	var feeAmount *big.Int
	if exactIn && !reachedTarget {
		// The remainder of the input is taken as fee.
		feeAmount = new(big.Int).Sub(amountRemaining, amountIn)
	} else {
		feeAmount = mulDivRoundingUp(amountIn, fee, feeComplement)
	}

	return swapStep{
		sqrtPriceNext: next,
		amountIn:      amountIn,
		amountOut:     amountOut,
		feeAmount:     feeAmount,
	}, true
}

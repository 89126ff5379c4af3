package pools

import (
	"math/big"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

const bpsDenominator = 10_000

var bigBps = big.NewInt(bpsDenominator)

// v2Pool is a constant product pool with a fee charged on the input.
type v2Pool struct {
	poolBase

	reserve0 osmomath.Int
	reserve1 osmomath.Int
	feeBps   uint32
}

var _ domain.Pool = &v2Pool{}

// CalculateTokenOutByTokenIn implements domain.Pool.
// out = in * (1 - fee) * reserveOut / (reserveIn + in * (1 - fee))
func (p *v2Pool) CalculateTokenOutByTokenIn(tokenIn domain.CurrencyAmount) (domain.SwapResult, error) {
	reserveIn, reserveOut, out, err := p.orient(tokenIn.Currency)
	if err != nil {
		return domain.SwapResult{}, err
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return domain.SwapResult{}, domain.InsufficientLiquidityError{PoolID: p.GetID()}
	}

	amountInWithFee := new(big.Int).Mul(tokenIn.Amount.BigInt(), big.NewInt(int64(bpsDenominator-p.feeBps)))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, bigBps)
	denominator.Add(denominator, amountInWithFee)

	amountOut := numerator.Quo(numerator, denominator)
	return domain.SwapResult{Amount: domain.NewCurrencyAmountFromBigInt(out, amountOut)}, nil
}

// CalculateTokenInByTokenOut implements domain.Pool.
// in = reserveIn * out / ((reserveOut - out) * (1 - fee)) + 1
func (p *v2Pool) CalculateTokenInByTokenOut(tokenOut domain.CurrencyAmount) (domain.SwapResult, error) {
	// Orient from the perspective of the output token, then swap sides.
	reserveOut, reserveIn, in, err := p.orient(tokenOut.Currency)
	if err != nil {
		return domain.SwapResult{}, err
	}

	amountOut := tokenOut.Amount.BigInt()
	if reserveIn.Sign() == 0 || amountOut.Cmp(reserveOut) >= 0 {
		return domain.SwapResult{}, domain.InsufficientLiquidityError{PoolID: p.GetID()}
	}

	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, bigBps)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, big.NewInt(int64(bpsDenominator-p.feeBps)))

	amountIn := numerator.Quo(numerator, denominator)
	amountIn.Add(amountIn, big.NewInt(1))
	return domain.SwapResult{Amount: domain.NewCurrencyAmountFromBigInt(in, amountIn)}, nil
}

// SpotPrice implements domain.Pool.
func (p *v2Pool) SpotPrice(base domain.Currency) (osmomath.BigDec, error) {
	reserveBase, reserveQuote, _, err := p.orient(base)
	if err != nil {
		return osmomath.BigDec{}, err
	}
	if reserveBase.Sign() == 0 {
		return osmomath.BigDec{}, domain.InsufficientLiquidityError{PoolID: p.GetID()}
	}
	return ratioBigDec(reserveQuote, reserveBase), nil
}

// GetLiquidity implements domain.Pool.
func (p *v2Pool) GetLiquidity(currency domain.Currency) osmomath.Int {
	isToken0, err := p.zeroForOne(currency)
	if err != nil {
		return osmomath.ZeroInt()
	}
	if isToken0 {
		return p.reserve0
	}
	return p.reserve1
}

// orient returns the reserve of the given currency, the reserve of the other token and the other token.
func (p *v2Pool) orient(currency domain.Currency) (*big.Int, *big.Int, domain.Currency, error) {
	isToken0, err := p.zeroForOne(currency)
	if err != nil {
		return nil, nil, domain.Currency{}, err
	}
	if isToken0 {
		return p.reserve0.BigInt(), p.reserve1.BigInt(), p.currency1, nil
	}
	return p.reserve1.BigInt(), p.reserve0.BigInt(), p.currency0, nil
}

package pools

import (
	"math/big"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

const (
	stableCoinCount     = 2
	stableMaxIterations = 255
	stablePrecision     = 18
)

// stablePool is a two coin stable swap pool.
// Balances are normalized to 18 decimals before solving the invariant.
// Only exact input swaps are supported.
type stablePool struct {
	poolBase

	reserve0      osmomath.Int
	reserve1      osmomath.Int
	feeBps        uint32
	amplification uint64
}

var _ domain.Pool = &stablePool{}

// CalculateTokenOutByTokenIn implements domain.Pool.
func (p *stablePool) CalculateTokenOutByTokenIn(tokenIn domain.CurrencyAmount) (domain.SwapResult, error) {
	isToken0, err := p.zeroForOne(tokenIn.Currency)
	if err != nil {
		return domain.SwapResult{}, err
	}

	i, j := 0, 1
	out := p.currency1
	if !isToken0 {
		i, j = 1, 0
		out = p.currency0
	}

	xp := p.normalizedBalances()
	if xp[0].Sign() == 0 || xp[1].Sign() == 0 {
		return domain.SwapResult{}, domain.InsufficientLiquidityError{PoolID: p.GetID()}
	}

	dx := scaleUp(tokenIn.Amount.BigInt(), p.decimals(i))
	x := new(big.Int).Add(xp[i], dx)

	y, err := p.getY(i, j, x, xp)
	if err != nil {
		return domain.SwapResult{}, err
	}

	// dy = xp[j] - y - 1, rounded against the swapper.
	dy := new(big.Int).Sub(xp[j], y)
	dy.Sub(dy, big.NewInt(1))
	if dy.Sign() <= 0 {
		return domain.SwapResult{Amount: domain.ZeroCurrencyAmount(out)}, nil
	}

	fee := new(big.Int).Mul(dy, big.NewInt(int64(p.feeBps)))
	fee.Quo(fee, bigBps)
	dy.Sub(dy, fee)

	return domain.SwapResult{Amount: domain.NewCurrencyAmountFromBigInt(out, scaleDown(dy, p.decimals(j)))}, nil
}

// CalculateTokenInByTokenOut implements domain.Pool.
func (p *stablePool) CalculateTokenInByTokenOut(domain.CurrencyAmount) (domain.SwapResult, error) {
	return domain.SwapResult{}, domain.ErrExactOutputNotSupported
}

// SpotPrice implements domain.Pool.
// Approximated by the ratio of one normalized base unit swapped without fees.
func (p *stablePool) SpotPrice(base domain.Currency) (osmomath.BigDec, error) {
	isToken0, err := p.zeroForOne(base)
	if err != nil {
		return osmomath.BigDec{}, err
	}
	i, j := 0, 1
	if !isToken0 {
		i, j = 1, 0
	}

	xp := p.normalizedBalances()
	if xp[0].Sign() == 0 || xp[1].Sign() == 0 {
		return osmomath.BigDec{}, domain.InsufficientLiquidityError{PoolID: p.GetID()}
	}

	// Probe with a small fraction of the base balance.
	dx := new(big.Int).Quo(xp[i], big.NewInt(1_000_000))
	if dx.Sign() == 0 {
		dx = big.NewInt(1)
	}
	y, err := p.getY(i, j, new(big.Int).Add(xp[i], dx), xp)
	if err != nil {
		return osmomath.BigDec{}, err
	}
	dy := new(big.Int).Sub(xp[j], y)

	// Convert back to raw units on both sides.
	rawIn := scaleDown(dx, p.decimals(i))
	rawOut := scaleDown(dy, p.decimals(j))
	if rawIn.Sign() == 0 {
		// Fall back to the normalized ratio rescaled by decimals.
		return ratioBigDec(
			new(big.Int).Mul(dy, pow10(p.decimals(j))),
			new(big.Int).Mul(dx, pow10(p.decimals(i))),
		), nil
	}
	return ratioBigDec(rawOut, rawIn), nil
}

// GetLiquidity implements domain.Pool.
func (p *stablePool) GetLiquidity(currency domain.Currency) osmomath.Int {
	isToken0, err := p.zeroForOne(currency)
	if err != nil {
		return osmomath.ZeroInt()
	}
	if isToken0 {
		return p.reserve0
	}
	return p.reserve1
}

func (p *stablePool) decimals(i int) uint8 {
	if i == 0 {
		return p.currency0.Decimals
	}
	return p.currency1.Decimals
}

func (p *stablePool) normalizedBalances() [stableCoinCount]*big.Int {
	return [stableCoinCount]*big.Int{
		scaleUp(p.reserve0.BigInt(), p.currency0.Decimals),
		scaleUp(p.reserve1.BigInt(), p.currency1.Decimals),
	}
}

// getD solves the stable swap invariant for D with Newton's method.
func (p *stablePool) getD(xp [stableCoinCount]*big.Int) (*big.Int, error) {
	n := big.NewInt(stableCoinCount)
	sum := new(big.Int).Add(xp[0], xp[1])
	if sum.Sign() == 0 {
		return big.NewInt(0), nil
	}

	ann := new(big.Int).Mul(new(big.Int).SetUint64(p.amplification), n)
	d := new(big.Int).Set(sum)

	for iteration := 0; iteration < stableMaxIterations; iteration++ {
		// dP = D^(n+1) / (n^n * prod(x))
		dP := new(big.Int).Set(d)
		for _, x := range xp {
			dP.Mul(dP, d)
			dP.Quo(dP, new(big.Int).Mul(x, n))
		}

		prev := new(big.Int).Set(d)

		// D = (Ann * S + dP * n) * D / ((Ann - 1) * D + (n + 1) * dP)
		numerator := new(big.Int).Mul(ann, sum)
		numerator.Add(numerator, new(big.Int).Mul(dP, n))
		numerator.Mul(numerator, d)

		denominator := new(big.Int).Mul(new(big.Int).Sub(ann, big.NewInt(1)), d)
		denominator.Add(denominator, new(big.Int).Mul(new(big.Int).Add(n, big.NewInt(1)), dP))

		d = numerator.Quo(numerator, denominator)

		if withinOne(d, prev) {
			return d, nil
		}
	}

	return nil, domain.StableSwapNotConvergedError{PoolID: p.GetID(), Iterations: stableMaxIterations}
}

// getY returns the new balance of coin j after setting the balance of coin i to x.
func (p *stablePool) getY(i, j int, x *big.Int, xp [stableCoinCount]*big.Int) (*big.Int, error) {
	d, err := p.getD(xp)
	if err != nil {
		return nil, err
	}

	n := big.NewInt(stableCoinCount)
	ann := new(big.Int).Mul(new(big.Int).SetUint64(p.amplification), n)

	c := new(big.Int).Set(d)
	sum := big.NewInt(0)
	for k := 0; k < stableCoinCount; k++ {
		var balance *big.Int
		switch k {
		case i:
			balance = x
		case j:
			continue
		default:
			balance = xp[k]
		}
		sum.Add(sum, balance)
		c.Mul(c, d)
		c.Quo(c, new(big.Int).Mul(balance, n))
	}
	c.Mul(c, d)
	c.Quo(c, new(big.Int).Mul(ann, n))

	b := new(big.Int).Add(sum, new(big.Int).Quo(d, ann))

	y := new(big.Int).Set(d)
	for iteration := 0; iteration < stableMaxIterations; iteration++ {
		prev := new(big.Int).Set(y)

		// y = (y^2 + c) / (2y + b - D)
		numerator := new(big.Int).Mul(y, y)
		numerator.Add(numerator, c)
		denominator := new(big.Int).Lsh(y, 1)
		denominator.Add(denominator, b)
		denominator.Sub(denominator, d)
		if denominator.Sign() <= 0 {
			return nil, domain.InsufficientLiquidityError{PoolID: p.GetID()}
		}
		y = numerator.Quo(numerator, denominator)

		if withinOne(y, prev) {
			return y, nil
		}
	}

	return nil, domain.StableSwapNotConvergedError{PoolID: p.GetID(), Iterations: stableMaxIterations}
}

func withinOne(a, b *big.Int) bool {
	diff := new(big.Int).Sub(a, b)
	return diff.CmpAbs(big.NewInt(1)) <= 0
}

// scaleUp converts a raw amount with the given decimals to 18 decimals.
func scaleUp(amount *big.Int, decimals uint8) *big.Int {
	if decimals >= stablePrecision {
		return new(big.Int).Quo(amount, pow10(decimals-stablePrecision))
	}
	return new(big.Int).Mul(amount, pow10(stablePrecision-decimals))
}

// scaleDown converts an 18 decimals amount back to the given decimals, rounding down.
func scaleDown(amount *big.Int, decimals uint8) *big.Int {
	if decimals >= stablePrecision {
		return new(big.Int).Mul(amount, pow10(decimals-stablePrecision))
	}
	return new(big.Int).Quo(amount, pow10(stablePrecision-decimals))
}

func pow10(exp uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

package pools_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/router/usecase/pools"
)

type PoolsTestSuite struct {
	suite.Suite
}

func TestPoolsTestSuite(t *testing.T) {
	suite.Run(t, new(PoolsTestSuite))
}

const testChainID = domain.ChainID(1337)

var (
	tokenA = domain.NewToken(testChainID, common.HexToAddress("0x000000000000000000000000000000000000000a"), 18, "A")
	tokenB = domain.NewToken(testChainID, common.HexToAddress("0x000000000000000000000000000000000000000b"), 18, "B")
	tokenC = domain.NewToken(testChainID, common.HexToAddress("0x000000000000000000000000000000000000000c"), 6, "C")

	poolAddress = common.HexToAddress("0x0000000000000000000000000000000000000100")
)

func (s *PoolsTestSuite) newV2Pool(reserve0, reserve1 int64) domain.Pool {
	pool, err := pools.NewPool(pools.PoolModel{
		Address:  poolAddress,
		Type:     domain.PoolTypeV2,
		Token0:   tokenA,
		Token1:   tokenB,
		Reserve0: osmomath.NewInt(reserve0),
		Reserve1: osmomath.NewInt(reserve1),
	})
	s.Require().NoError(err)
	return pool
}

// sqrtPriceX96 returns 2^96 * num / den.
func sqrtPriceX96(num, den int64) osmomath.Int {
	v := new(big.Int).Mul(pools.Q96, big.NewInt(num))
	return osmomath.NewIntFromBigInt(v.Quo(v, big.NewInt(den)))
}

func (s *PoolsTestSuite) TestNewPool_Validation() {
	tests := []struct {
		name  string
		model pools.PoolModel
	}{
		{
			name:  "identical tokens",
			model: pools.PoolModel{Type: domain.PoolTypeV2, Token0: tokenA, Token1: tokenA},
		},
		{
			name:  "native token",
			model: pools.PoolModel{Type: domain.PoolTypeV2, Token0: domain.NewNativeCurrency(testChainID, 18, "ETH"), Token1: tokenA},
		},
		{
			name:  "negative reserves",
			model: pools.PoolModel{Type: domain.PoolTypeV2, Token0: tokenA, Token1: tokenB, Reserve0: osmomath.NewInt(-1)},
		},
		{
			name:  "v3 without sqrt price",
			model: pools.PoolModel{Type: domain.PoolTypeV3, Token0: tokenA, Token1: tokenB},
		},
		{
			name: "v3 duplicate ticks",
			model: pools.PoolModel{
				Type: domain.PoolTypeV3, Token0: tokenA, Token1: tokenB,
				SqrtPriceX96: sqrtPriceX96(1, 1),
				Ticks: []pools.TickModel{
					{Index: 10, LiquidityNet: osmomath.NewInt(1), SqrtPriceX96: sqrtPriceX96(101, 100)},
					{Index: 10, LiquidityNet: osmomath.NewInt(1), SqrtPriceX96: sqrtPriceX96(102, 100)},
				},
			},
		},
		{
			name:  "unknown type",
			model: pools.PoolModel{Type: domain.PoolType(42), Token0: tokenA, Token1: tokenB},
		},
	}

	for _, tc := range tests {
		tc := tc
		s.Run(tc.name, func() {
			_, err := pools.NewPool(tc.model)
			s.Require().Error(err)
		})
	}
}

func (s *PoolsTestSuite) TestV2Pool_Swap() {
	pool := s.newV2Pool(1_000_000, 1_000_000)

	out, err := pool.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, osmomath.NewInt(1000)))
	s.Require().NoError(err)
	s.Require().True(out.Amount.Currency.Equals(tokenB))
	s.Require().Equal(osmomath.NewInt(996), out.Amount.Amount)
	s.Require().Zero(out.InitializedTicksCrossed)

	in, err := pool.CalculateTokenInByTokenOut(domain.NewCurrencyAmount(tokenB, osmomath.NewInt(996)))
	s.Require().NoError(err)
	s.Require().True(in.Amount.Currency.Equals(tokenA))
	s.Require().Equal(osmomath.NewInt(1000), in.Amount.Amount)
}

func (s *PoolsTestSuite) TestV2Pool_Errors() {
	pool := s.newV2Pool(1_000_000, 1_000_000)

	_, err := pool.CalculateTokenInByTokenOut(domain.NewCurrencyAmount(tokenB, osmomath.NewInt(1_000_000)))
	s.Require().ErrorAs(err, &domain.InsufficientLiquidityError{})

	_, err = pool.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenC, osmomath.NewInt(1)))
	s.Require().ErrorAs(err, &domain.CurrencyNotInPoolError{})

	empty := s.newV2Pool(0, 1_000_000)
	_, err = empty.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, osmomath.NewInt(1)))
	s.Require().ErrorAs(err, &domain.InsufficientLiquidityError{})
}

func (s *PoolsTestSuite) TestV2Pool_SpotPriceAndLiquidity() {
	pool := s.newV2Pool(1_000, 4_000)

	price, err := pool.SpotPrice(tokenA)
	s.Require().NoError(err)
	s.Require().True(osmomath.NewBigDec(4).Equal(price), price.String())

	price, err = pool.SpotPrice(tokenB)
	s.Require().NoError(err)
	s.Require().True(osmomath.NewBigDecWithPrec(25, 2).Equal(price), price.String())

	s.Require().Equal(osmomath.NewInt(1_000), pool.GetLiquidity(tokenA))
	s.Require().Equal(osmomath.NewInt(4_000), pool.GetLiquidity(tokenB))
	s.Require().True(pool.GetLiquidity(tokenC).IsZero())
}

// Quoting the input for a quoted output never costs more than the original input plus one unit.
func TestV2Pool_ExactOutInvertsExactIn(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserve0 := rapid.Int64Range(1_000, 1_000_000_000_000).Draw(t, "reserve0")
		reserve1 := rapid.Int64Range(1_000, 1_000_000_000_000).Draw(t, "reserve1")
		amountIn := rapid.Int64Range(1, reserve0).Draw(t, "amountIn")

		pool, err := pools.NewPool(pools.PoolModel{
			Address: poolAddress, Type: domain.PoolTypeV2, Token0: tokenA, Token1: tokenB,
			Reserve0: osmomath.NewInt(reserve0), Reserve1: osmomath.NewInt(reserve1),
		})
		if err != nil {
			t.Fatal(err)
		}

		out, err := pool.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, osmomath.NewInt(amountIn)))
		if err != nil {
			t.Fatal(err)
		}
		if out.Amount.IsZero() {
			return
		}

		in, err := pool.CalculateTokenInByTokenOut(out.Amount)
		if err != nil {
			t.Fatal(err)
		}
		if in.Amount.Amount.GT(osmomath.NewInt(amountIn + 1)) {
			t.Fatalf("input (%s) for output (%s) exceeds original input (%d)", in.Amount, out.Amount, amountIn)
		}
	})
}

func (s *PoolsTestSuite) TestStablePool_Swap() {
	oneMillion := osmomath.NewInt(1_000_000)
	eighteen := osmomath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	six := osmomath.NewInt(1_000_000)

	pool, err := pools.NewPool(pools.PoolModel{
		Address:  poolAddress,
		Type:     domain.PoolTypeStable,
		Token0:   tokenA,
		Token1:   tokenC,
		Reserve0: oneMillion.Mul(eighteen),
		Reserve1: oneMillion.Mul(six),
	})
	s.Require().NoError(err)

	// 100 A for C: close to 1:1 minus the 4 bps fee.
	out, err := pool.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, osmomath.NewInt(100).Mul(eighteen)))
	s.Require().NoError(err)
	s.Require().True(out.Amount.Currency.Equals(tokenC))
	s.Require().True(out.Amount.Amount.LT(osmomath.NewInt(100).Mul(six)))
	s.Require().True(out.Amount.Amount.GT(osmomath.NewInt(99_950_000)), out.Amount.String())

	// And back.
	out, err = pool.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenC, osmomath.NewInt(100).Mul(six)))
	s.Require().NoError(err)
	s.Require().True(out.Amount.Currency.Equals(tokenA))
	s.Require().True(out.Amount.Amount.LT(osmomath.NewInt(100).Mul(eighteen)))
	s.Require().True(out.Amount.Amount.GT(osmomath.NewInt(9995).Mul(eighteen).QuoRaw(100)), out.Amount.String())

	_, err = pool.CalculateTokenInByTokenOut(domain.NewCurrencyAmount(tokenC, six))
	s.Require().ErrorIs(err, domain.ErrExactOutputNotSupported)

	price, err := pool.SpotPrice(tokenA)
	s.Require().NoError(err)
	// One raw unit of A (1e-18) buys about 1e-12 raw units of C.
	s.Require().True(price.GT(osmomath.NewBigDecWithPrec(99, 14)), price.String())
	s.Require().True(price.LT(osmomath.NewBigDecWithPrec(101, 14)), price.String())
}

func (s *PoolsTestSuite) TestStablePool_LowerSlippageThanV2() {
	reserve := osmomath.NewInt(1_000_000_000)
	amountIn := osmomath.NewInt(100_000_000)

	stable, err := pools.NewPool(pools.PoolModel{
		Address: poolAddress, Type: domain.PoolTypeStable, Token0: tokenA, Token1: tokenB,
		Reserve0: reserve, Reserve1: reserve, FeeBps: 25,
	})
	s.Require().NoError(err)
	v2, err := pools.NewPool(pools.PoolModel{
		Address: poolAddress, Type: domain.PoolTypeV2, Token0: tokenA, Token1: tokenB,
		Reserve0: reserve, Reserve1: reserve, FeeBps: 25,
	})
	s.Require().NoError(err)

	stableOut, err := stable.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, amountIn))
	s.Require().NoError(err)
	v2Out, err := v2.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, amountIn))
	s.Require().NoError(err)

	s.Require().True(stableOut.Amount.GT(v2Out.Amount))
}

// newV3Pool returns a pool at price 1 with two nested positions:
// 1e18 liquidity on ticks [-100, 100] and 1e18 on ticks [-200, 200].
func (s *PoolsTestSuite) newV3Pool() domain.Pool {
	liquidity := osmomath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	pool, err := pools.NewPool(pools.PoolModel{
		Address:      poolAddress,
		Type:         domain.PoolTypeV3,
		Token0:       tokenA,
		Token1:       tokenB,
		Fee:          500,
		SqrtPriceX96: sqrtPriceX96(1, 1),
		Liquidity:    liquidity.MulRaw(2),
		Tick:         0,
		Ticks: []pools.TickModel{
			{Index: 200, LiquidityNet: liquidity.Neg(), SqrtPriceX96: sqrtPriceX96(1010, 1000)},
			{Index: -100, LiquidityNet: liquidity, SqrtPriceX96: sqrtPriceX96(995, 1000)},
			{Index: 100, LiquidityNet: liquidity.Neg(), SqrtPriceX96: sqrtPriceX96(1005, 1000)},
			{Index: -200, LiquidityNet: liquidity, SqrtPriceX96: sqrtPriceX96(990, 1000)},
		},
	})
	s.Require().NoError(err)
	return pool
}

func (s *PoolsTestSuite) TestV3Pool_SwapWithinRange() {
	pool := s.newV3Pool()
	amountIn := osmomath.NewInt(1_000_000_000_000)

	out, err := pool.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(tokenA, amountIn))
	s.Require().NoError(err)
	s.Require().True(out.Amount.Currency.Equals(tokenB))
	s.Require().Zero(out.InitializedTicksCrossed)

	// 5 bps fee and negligible price impact.
	s.Require().True(out.Amount.Amount.LT(amountIn))
	s.Require().True(out.Amount.Amount.GT(amountIn.MulRaw(9994).QuoRaw(10000)), out.Amount.String())

	in, err := pool.CalculateTokenInByTokenOut(out.Amount)
	s.Require().NoError(err)
	s.Require().True(in.Amount.Currency.Equals(tokenA))
	s.Require().True(in.Amount.Amount.Sub(amountIn).Abs().LTE(osmomath.NewInt(2)), in.Amount.String())
}

func (s *PoolsTestSuite) TestV3Pool_CrossesInitializedTicks() {
	pool := s.newV3Pool()
	e15 := osmomath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil))

	tests := []struct {
		name            string
		amountIn        domain.CurrencyAmount
		expectedCrossed uint32
		expectErr       bool
	}{
		{
			name:            "token0 in crossing the inner lower tick",
			amountIn:        domain.NewCurrencyAmount(tokenA, e15.MulRaw(12)),
			expectedCrossed: 1,
		},
		{
			name:            "token1 in crossing the inner upper tick",
			amountIn:        domain.NewCurrencyAmount(tokenB, e15.MulRaw(12)),
			expectedCrossed: 1,
		},
		{
			name:      "token0 in exhausting all liquidity",
			amountIn:  domain.NewCurrencyAmount(tokenA, e15.MulRaw(100)),
			expectErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		s.Run(tc.name, func() {
			result, err := pool.CalculateTokenOutByTokenIn(tc.amountIn)
			if tc.expectErr {
				s.Require().ErrorAs(err, &domain.InsufficientLiquidityError{})
				return
			}
			s.Require().NoError(err)
			s.Require().Equal(tc.expectedCrossed, result.InitializedTicksCrossed)
			s.Require().True(result.Amount.IsPositive())
		})
	}
}

func (s *PoolsTestSuite) TestV3Pool_SpotPrice() {
	pool := s.newV3Pool()

	price, err := pool.SpotPrice(tokenA)
	s.Require().NoError(err)
	s.Require().True(osmomath.OneBigDec().Equal(price), price.String())

	s.Require().True(pool.GetLiquidity(tokenA).IsPositive())
	s.Require().True(pool.GetLiquidity(tokenC).IsZero())
}

func (s *PoolsTestSuite) TestComputeSwapStep() {
	liquidity := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	price := pools.Q96
	target := new(big.Int).Quo(new(big.Int).Mul(pools.Q96, big.NewInt(99)), big.NewInt(100))

	// Enough input to reach the target: fee is charged on the consumed input only.
	large := new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)
	step, ok := pools.ComputeSwapStep(price, target, liquidity, large, 3000, true)
	s.Require().True(ok)
	s.Require().Equal(0, step.SqrtPriceNext().Cmp(target))
	s.Require().Equal(0, step.AmountIn().Cmp(pools.GetAmount0Delta(target, price, liquidity, true)))
	s.Require().True(step.FeeAmount().Sign() > 0)

	// Not enough input: the whole remainder is consumed.
	small := big.NewInt(1_000_000)
	step, ok = pools.ComputeSwapStep(price, target, liquidity, small, 3000, true)
	s.Require().True(ok)
	s.Require().Equal(0, new(big.Int).Add(step.AmountIn(), step.FeeAmount()).Cmp(small))
	s.Require().Equal(1, step.SqrtPriceNext().Cmp(target))
}

func (s *PoolsTestSuite) TestScaling() {
	s.Require().Equal(big.NewInt(1_000_000_000_000), pools.ScaleUp(big.NewInt(1), 6))
	s.Require().Equal(big.NewInt(1), pools.ScaleDown(big.NewInt(1_999_999_999_999), 6))
	s.Require().Equal(big.NewInt(5), pools.ScaleUp(big.NewInt(5), 18))
}

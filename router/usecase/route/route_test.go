package route_test

import (
	"errors"
	"testing"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mocks"
	"github.com/plunderswap/sor/router/usecase/route"
	"github.com/plunderswap/sor/router/usecase/routertesting"
)

type RouteTestSuite struct {
	routertesting.RouterTestHelper
}

func TestRouteTestSuite(t *testing.T) {
	suite.Run(t, new(RouteTestSuite))
}

var (
	ETH    = routertesting.ETH
	WETH   = routertesting.WETH
	USDC   = routertesting.USDC
	TokenA = routertesting.TokenA
	TokenB = routertesting.TokenB
	TokenC = routertesting.TokenC

	reserve = routertesting.Units(TokenA, 1_000_000)
)

func (s *RouteTestSuite) TestNew() {
	var (
		poolAB   = routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)
		poolBC   = routertesting.MustNewV3Pool(2, TokenB, TokenC, reserve)
		wethUSDC = routertesting.MustNewV2Pool(3, WETH, USDC, reserve, reserve)
	)

	tests := []struct {
		name   string
		input  domain.Currency
		output domain.Currency
		pools  []domain.Pool

		expectErr    bool
		expectedPath []domain.Currency
		expectedType domain.RouteType
	}{
		{
			name:         "single hop",
			input:        TokenA,
			output:       TokenB,
			pools:        []domain.Pool{poolAB},
			expectedPath: []domain.Currency{TokenA, TokenB},
			expectedType: domain.RouteTypeV2,
		},
		{
			name:         "reverse direction",
			input:        TokenB,
			output:       TokenA,
			pools:        []domain.Pool{poolAB},
			expectedPath: []domain.Currency{TokenB, TokenA},
			expectedType: domain.RouteTypeV2,
		},
		{
			name:         "mixed two hops",
			input:        TokenA,
			output:       TokenC,
			pools:        []domain.Pool{poolAB, poolBC},
			expectedPath: []domain.Currency{TokenA, TokenB, TokenC},
			expectedType: domain.RouteTypeMixed,
		},
		{
			name:         "native ends keep the native currency",
			input:        ETH,
			output:       USDC,
			pools:        []domain.Pool{wethUSDC},
			expectedPath: []domain.Currency{ETH, USDC},
			expectedType: domain.RouteTypeV2,
		},
		{
			name:         "native output",
			input:        USDC,
			output:       ETH,
			pools:        []domain.Pool{wethUSDC},
			expectedPath: []domain.Currency{USDC, ETH},
			expectedType: domain.RouteTypeV2,
		},
		{
			name:      "no pools",
			input:     TokenA,
			output:    TokenB,
			expectErr: true,
		},
		{
			name:      "pool does not hold the current currency",
			input:     TokenA,
			output:    TokenC,
			pools:     []domain.Pool{poolBC},
			expectErr: true,
		},
		{
			name:      "route ends in another currency",
			input:     TokenA,
			output:    TokenC,
			pools:     []domain.Pool{poolAB},
			expectErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		s.Run(tc.name, func() {
			r, err := route.New(tc.input, tc.output, tc.pools)
			if tc.expectErr {
				s.Require().Error(err)
				return
			}
			s.Require().NoError(err)

			s.Require().Len(r.GetPath(), len(tc.expectedPath))
			for i, currency := range tc.expectedPath {
				s.Require().True(currency.Equals(r.GetPath()[i]), "path[%d]: expected %s, got %s", i, currency, r.GetPath()[i])
			}
			s.Require().Equal(tc.expectedType, r.GetType())
			s.Require().Equal(len(tc.pools), r.HopCount())
			s.Require().True(r.GetInput().Equals(tc.input))
			s.Require().True(r.GetOutput().Equals(tc.output))
		})
	}
}

func (s *RouteTestSuite) TestID() {
	poolAB := routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)
	poolBC := routertesting.MustNewV2Pool(2, TokenB, TokenC, reserve, reserve)

	r, err := route.New(TokenA, TokenC, []domain.Pool{poolAB, poolBC})
	s.Require().NoError(err)
	s.Require().Equal(poolAB.GetID()+"|"+poolBC.GetID(), r.ID())

	// The pool order is part of the identity.
	reversed, err := route.New(TokenC, TokenA, []domain.Pool{poolBC, poolAB})
	s.Require().NoError(err)
	s.Require().NotEqual(r.ID(), reversed.ID())

	s.Require().Contains(r.String(), poolAB.GetID())
	s.Require().Contains(r.String(), "-[V2 ")
}

func (s *RouteTestSuite) TestCalculateTokenOutByTokenIn() {
	var (
		poolAB = routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)
		poolBC = routertesting.MustNewV2Pool(2, TokenB, TokenC, reserve, reserve)
		amount = routertesting.NewAmount(TokenA, 100)
	)

	r, err := route.New(TokenA, TokenC, []domain.Pool{poolAB, poolBC})
	s.Require().NoError(err)

	quote, err := r.CalculateTokenOutByTokenIn(amount)
	s.Require().NoError(err)
	s.Require().True(quote.Amount.Currency.Equals(TokenC))
	s.Require().Equal([]uint32{0, 0}, quote.InitializedTicksCrossed)

	// Chaining the pools by hand gives the same amount.
	first, err := poolAB.CalculateTokenOutByTokenIn(amount)
	s.Require().NoError(err)
	second, err := poolBC.CalculateTokenOutByTokenIn(first.Amount)
	s.Require().NoError(err)
	s.Require().Equal(second.Amount.Amount.String(), quote.Amount.Amount.String())
}

func (s *RouteTestSuite) TestCalculateTokenInByTokenOut() {
	var (
		poolAB = routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)
		poolBC = routertesting.MustNewV2Pool(2, TokenB, TokenC, reserve, reserve)
		amount = routertesting.NewAmount(TokenC, 100)
	)

	r, err := route.New(TokenA, TokenC, []domain.Pool{poolAB, poolBC})
	s.Require().NoError(err)

	quote, err := r.CalculateTokenInByTokenOut(amount)
	s.Require().NoError(err)
	s.Require().True(quote.Amount.Currency.Equals(TokenA))
	s.Require().Len(quote.InitializedTicksCrossed, 2)

	// Swapping the quoted input forward gives at least the requested output.
	forward, err := r.CalculateTokenOutByTokenIn(quote.Amount)
	s.Require().NoError(err)
	s.Require().True(forward.Amount.Amount.GTE(amount.Amount))
}

func (s *RouteTestSuite) TestCalculate_Errors() {
	failing := &mocks.MockPool{
		Address:   routertesting.PoolAddress(1),
		PoolType:  domain.PoolTypeV2,
		Currency0: TokenA,
		Currency1: TokenB,
		CalculateTokenOutByTokenInFunc: func(tokenIn domain.CurrencyAmount) (domain.SwapResult, error) {
			return domain.SwapResult{}, domain.InsufficientLiquidityError{PoolID: "1"}
		},
		CalculateTokenInByTokenOutFunc: func(tokenOut domain.CurrencyAmount) (domain.SwapResult, error) {
			panic("overflow")
		},
	}

	r, err := route.New(TokenA, TokenB, []domain.Pool{failing})
	s.Require().NoError(err)

	_, err = r.CalculateTokenOutByTokenIn(routertesting.NewAmount(TokenA, 1))
	s.Require().True(errors.As(err, &domain.InsufficientLiquidityError{}))

	// Panics are recovered into errors.
	_, err = r.CalculateTokenInByTokenOut(routertesting.NewAmount(TokenB, 1))
	s.Require().ErrorContains(err, "overflow")

	// Zero intermediate amounts fail before reaching the pool.
	_, err = r.CalculateTokenOutByTokenIn(domain.NewCurrencyAmount(TokenA, osmomath.ZeroInt()))
	s.Require().Error(err)
}

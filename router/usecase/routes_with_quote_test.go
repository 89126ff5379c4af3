package usecase_test

import (
	"context"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mocks"
	routerusecase "github.com/plunderswap/sor/router/usecase"
	"github.com/plunderswap/sor/router/usecase/routertesting"
)

func (s *RouterTestSuite) TestGetDistributionPercents() {
	tests := []struct {
		name                string
		distributionPercent int

		expectedPercents []uint8
		expectErr        bool
	}{
		{name: "quarters", distributionPercent: 25, expectedPercents: []uint8{25, 50, 75, 100}},
		{name: "fives", distributionPercent: 5, expectedPercents: []uint8{5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100}},
		{name: "whole amount", distributionPercent: 100, expectedPercents: []uint8{100}},
		{name: "zero", distributionPercent: 0, expectErr: true},
		{name: "negative", distributionPercent: -25, expectErr: true},
		{name: "does not divide 100", distributionPercent: 30, expectErr: true},
		{name: "above 100", distributionPercent: 200, expectErr: true},
	}

	for _, tc := range tests {
		tc := tc
		s.Run(tc.name, func() {
			percents, err := routerusecase.GetDistributionPercents(tc.distributionPercent)
			if tc.expectErr {
				s.Require().ErrorIs(err, domain.ErrInvalidDistributionPercent)
				return
			}
			s.Require().NoError(err)
			s.Require().Equal(tc.expectedPercents, percents)
		})
	}
}

// Results are ordered by percent then by route, and carry the slice they were quoted for.
func (s *RouterTestSuite) TestGetRoutesWithValidQuote_Ordering() {
	var (
		pools = []domain.Pool{
			routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve),
			routertesting.MustNewStablePool(2, TokenA, TokenB, reserve, reserve),
		}
		routes = routerusecase.ComputeAllRoutes(TokenA, TokenB, pools, 1)
		amount = routertesting.NewAmount(TokenA, 100)
	)

	quotes, err := routerusecase.GetRoutesWithValidQuote(context.Background(), routerusecase.RoutesWithQuoteParams{
		Amount:              amount,
		Routes:              routes,
		TradeType:           domain.TradeTypeExactInput,
		DistributionPercent: 50,
		QuoteProvider:       simulateOrFail(func(domain.Route, domain.CurrencyAmount) bool { return false }),
		GasModel:            s.mustCreateGasModel(TokenB),
	})
	s.Require().NoError(err)
	s.Require().Len(quotes, 4)

	expected := []struct {
		percent uint8
		routeID string
	}{
		{50, routes[0].ID()},
		{50, routes[1].ID()},
		{100, routes[0].ID()},
		{100, routes[1].ID()},
	}
	for i, q := range quotes {
		s.Require().Equal(expected[i].percent, q.Percent)
		s.Require().Equal(expected[i].routeID, q.Route.ID())
		s.Require().Equal(amount.MulPercent(q.Percent).Amount.String(), q.Amount.Amount.String())
		s.Require().True(q.Quote.IsPositive())
		s.Require().True(q.Quote.Currency.Equals(TokenB))
		// No conversion from native into TokenB.
		s.Require().Equal(q.Quote.Amount.String(), q.QuoteAdjustedForGas.Amount.String())
		s.Require().Equal(routerusecase.EstimateGasUnits(q.Route, q.InitializedTicksCrossed), q.GasEstimate.Int64())
	}
}

func (s *RouterTestSuite) TestGetRoutesWithValidQuote_DropsZeroSlicesAndQuotes() {
	pools := []domain.Pool{routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve)}
	routes := routerusecase.ComputeAllRoutes(TokenA, TokenB, pools, 1)

	// 3 raw units: the 25% slice is zero.
	amount := domain.NewCurrencyAmount(TokenA, osmomath.NewInt(3))

	quoteProvider := &mocks.QuoteProviderMock{
		GetRouteQuoteFunc: func(ctx context.Context, r domain.Route, slice domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error) {
			s.Require().True(slice.IsPositive())
			s.Require().Equal(routertesting.DefaultBlockNumber, blockNumber)
			// Only the whole amount gets a non zero quote.
			if slice.Amount.Equal(amount.Amount) {
				return domain.RouteQuote{Amount: domain.NewCurrencyAmount(TokenB, osmomath.NewInt(2)), InitializedTicksCrossed: []uint32{0}}, nil
			}
			return domain.RouteQuote{Amount: domain.ZeroCurrencyAmount(TokenB), InitializedTicksCrossed: []uint32{0}}, nil
		},
	}

	quotes, err := routerusecase.GetRoutesWithValidQuote(context.Background(), routerusecase.RoutesWithQuoteParams{
		Amount:              amount,
		Routes:              routes,
		TradeType:           domain.TradeTypeExactInput,
		DistributionPercent: 25,
		BlockNumber:         routertesting.DefaultBlockNumber,
		QuoteProvider:       quoteProvider,
	})
	s.Require().NoError(err)
	s.Require().Equal(3, quoteProvider.Calls())
	s.Require().Len(quotes, 1)
	s.Require().Equal(uint8(100), quotes[0].Percent)
}

func (s *RouterTestSuite) TestGetRoutesWithValidQuote_ExactOutputSkipsMixedRoutes() {
	pools := []domain.Pool{
		routertesting.MustNewV2Pool(1, TokenA, TokenB, reserve, reserve),
		routertesting.MustNewV3Pool(2, TokenB, TokenC, reserve),
	}
	routes := routerusecase.ComputeAllRoutes(TokenA, TokenC, pools, 2)
	s.Require().Len(routes, 1)
	s.Require().Equal(domain.RouteTypeMixed, routes[0].GetType())

	quoteProvider := &mocks.QuoteProviderMock{}
	quotes, err := routerusecase.GetRoutesWithValidQuote(context.Background(), routerusecase.RoutesWithQuoteParams{
		Amount:              routertesting.NewAmount(TokenC, 1),
		Routes:              routes,
		TradeType:           domain.TradeTypeExactOutput,
		DistributionPercent: 25,
		QuoteProvider:       quoteProvider,
	})
	s.Require().NoError(err)
	s.Require().Empty(quotes)
	s.Require().Zero(quoteProvider.Calls())
}

func (s *RouterTestSuite) TestGetRoutesWithValidQuote_InvalidParams() {
	_, err := routerusecase.GetRoutesWithValidQuote(context.Background(), routerusecase.RoutesWithQuoteParams{
		Amount:              routertesting.NewAmount(TokenA, 1),
		DistributionPercent: 25,
	})
	s.Require().ErrorIs(err, domain.ErrNoQuoteProvider)

	_, err = routerusecase.GetRoutesWithValidQuote(context.Background(), routerusecase.RoutesWithQuoteParams{
		Amount:              routertesting.NewAmount(TokenA, 1),
		DistributionPercent: 40,
		QuoteProvider:       &mocks.QuoteProviderMock{},
	})
	s.Require().ErrorIs(err, domain.ErrInvalidDistributionPercent)
}

func (s *RouterTestSuite) TestGetRoutesWithValidQuote_NoRoutes() {
	quotes, err := routerusecase.GetRoutesWithValidQuote(context.Background(), routerusecase.RoutesWithQuoteParams{
		Amount:              routertesting.NewAmount(TokenA, 1),
		DistributionPercent: 25,
		QuoteProvider:       &mocks.QuoteProviderMock{},
	})
	s.Require().NoError(err)
	s.Require().Empty(quotes)
}

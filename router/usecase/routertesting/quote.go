package routertesting

import (
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// ValidateTrade validates the invariants every trade holds:
// percents sum to 100, fixed side amounts sum to the trade amount, the split
// and hop bounds hold and no pool is shared between routes.
func (s *RouterTestHelper) ValidateTrade(trade *domain.SmartRouterTrade, amount domain.CurrencyAmount, maxHops, maxSplits int) {
	s.Require().NotNil(trade)
	s.Require().NotEmpty(trade.Routes)
	s.Require().LessOrEqual(len(trade.Routes), maxSplits)

	totalPercent := 0
	fixedSide := osmomath.ZeroInt()
	seenPools := map[string]struct{}{}
	for _, r := range trade.Routes {
		totalPercent += int(r.Percent)
		s.Require().LessOrEqual(r.Route.HopCount(), maxHops)

		if trade.TradeType == domain.TradeTypeExactInput {
			fixedSide = fixedSide.Add(r.InputAmount.Amount)
		} else {
			fixedSide = fixedSide.Add(r.OutputAmount.Amount)
		}

		for _, pool := range r.Route.GetPools() {
			_, seen := seenPools[pool.GetID()]
			s.Require().False(seen, "pool %s is used by more than one route", pool.GetID())
			seenPools[pool.GetID()] = struct{}{}
		}
	}

	s.Require().Equal(100, totalPercent)
	s.Require().Equal(amount.Amount.String(), fixedSide.String())

	if trade.TradeType == domain.TradeTypeExactInput {
		s.Require().Equal(amount.Amount.String(), trade.InputAmount.Amount.String())
		s.Require().True(trade.OutputAmount.IsPositive())
	} else {
		s.Require().Equal(amount.Amount.String(), trade.OutputAmount.Amount.String())
		s.Require().True(trade.InputAmount.IsPositive())
	}
}

// ValidateRoutePath validates the route visits no currency twice and ends in output.
func (s *RouterTestHelper) ValidateRoutePath(r domain.Route, input, output domain.Currency) {
	path := r.GetPath()
	s.Require().Len(path, r.HopCount()+1)
	s.Require().True(path[0].Equals(input))
	s.Require().True(path[len(path)-1].Equals(output))

	seen := map[string]struct{}{}
	for _, currency := range path {
		key := currency.Wrapped().Key()
		_, ok := seen[key]
		s.Require().False(ok, "currency %s visited twice in %s", currency, r)
		seen[key] = struct{}{}
	}
}

package usecase

import (
	"sort"
	"strings"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// maxCandidatesPerPercent bounds the quotes considered per distribution percent.
// Candidates are ranked by quote adjusted for gas before the cut.
const maxCandidatesPerPercent = 32

// GetBestRouteCombinationByQuotes selects the combination of at most maxSplits pool disjoint
// quotes whose percents sum to exactly 100 and whose total quote adjusted for gas is the largest
// for exact input (smallest for exact output).
// Ties go to fewer routes, then to the lexicographically smallest route IDs.
// The rounding dust left by slicing the amount is added to the route with the largest percent
// so that the fixed side amounts sum to amount. That route's counter amount is the quote of its
// slice without the dust; GetBestTrade quotes it again with the dust included.
// Returns nil if no combination covers 100 percent.
func GetBestRouteCombinationByQuotes(amount domain.CurrencyAmount, quoteCurrency domain.Currency, quotes []domain.RouteWithValidQuote, tradeType domain.TradeType, maxSplits int) *domain.BestRoutes {
	selection, ok := selectBestRouteCombination(quotes, tradeType, maxSplits)
	if !ok {
		return nil
	}
	return buildBestRoutes(amount, quoteCurrency, selection, tradeType)
}

// selectBestRouteCombination returns the selected quotes ordered by percent descending.
func selectBestRouteCombination(quotes []domain.RouteWithValidQuote, tradeType domain.TradeType, maxSplits int) ([]domain.RouteWithValidQuote, bool) {
	if maxSplits <= 0 {
		maxSplits = 1
	}

	search := newCombinationSearch(quotes, tradeType, maxSplits)
	if len(search.candidates) == 0 {
		return nil, false
	}

	return search.run()
}

type combinationSearch struct {
	// candidates are sorted by percent descending, then by score descending, then by route ID.
	candidates []domain.RouteWithValidQuote
	// scores are the quotes adjusted for gas, negated for exact output so that higher is better.
	scores  []osmomath.Int
	poolIDs [][]string

	// bound[r] is an upper bound of the score reachable with r remaining percent.
	bound   [101]osmomath.Int
	boundOK [101]bool

	maxSplits int
	usedPools map[string]struct{}
	selection []int

	found     bool
	best      []int
	bestScore osmomath.Int
	bestKey   string
}

func newCombinationSearch(quotes []domain.RouteWithValidQuote, tradeType domain.TradeType, maxSplits int) *combinationSearch {
	type scored struct {
		quote domain.RouteWithValidQuote
		score osmomath.Int
		id    string
	}

	all := make([]scored, 0, len(quotes))
	for _, q := range quotes {
		if q.Percent == 0 || q.Percent > 100 || q.Route == nil || !q.Quote.IsPositive() {
			continue
		}
		score := q.QuoteAdjustedForGas.Amount
		if tradeType == domain.TradeTypeExactOutput {
			score = score.Neg()
		}
		all = append(all, scored{quote: q, score: score, id: q.Route.ID()})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].quote.Percent != all[j].quote.Percent {
			return all[i].quote.Percent > all[j].quote.Percent
		}
		if !all[i].score.Equal(all[j].score) {
			return all[i].score.GT(all[j].score)
		}
		return all[i].id < all[j].id
	})

	s := &combinationSearch{
		maxSplits: maxSplits,
		usedPools: make(map[string]struct{}),
	}

	perPercent := make(map[uint8]int)
	for _, c := range all {
		if perPercent[c.quote.Percent] >= maxCandidatesPerPercent {
			continue
		}
		perPercent[c.quote.Percent]++

		pools := c.quote.Route.GetPools()
		ids := make([]string, 0, len(pools))
		for _, pool := range pools {
			ids = append(ids, pool.GetID())
		}

		s.candidates = append(s.candidates, c.quote)
		s.scores = append(s.scores, c.score)
		s.poolIDs = append(s.poolIDs, ids)
	}

	s.computeBound()
	return s
}

// computeBound fills bound with an unbounded knapsack over the best score of each percent.
// It ignores the split limit and pool overlaps so it never underestimates.
func (s *combinationSearch) computeBound() {
	bestByPercent := make(map[uint8]osmomath.Int)
	for i, c := range s.candidates {
		if _, ok := bestByPercent[c.Percent]; !ok {
			// Candidates are sorted by score within a percent.
			bestByPercent[c.Percent] = s.scores[i]
		}
	}

	s.bound[0] = osmomath.ZeroInt()
	s.boundOK[0] = true
	for r := 1; r <= 100; r++ {
		for percent, score := range bestByPercent {
			p := int(percent)
			if p > r || !s.boundOK[r-p] {
				continue
			}
			candidate := s.bound[r-p].Add(score)
			if !s.boundOK[r] || candidate.GT(s.bound[r]) {
				s.bound[r] = candidate
				s.boundOK[r] = true
			}
		}
	}
}

func (s *combinationSearch) run() ([]domain.RouteWithValidQuote, bool) {
	s.dfs(0, 100, osmomath.ZeroInt())
	if !s.found {
		return nil, false
	}

	selection := make([]domain.RouteWithValidQuote, 0, len(s.best))
	for _, i := range s.best {
		selection = append(selection, s.candidates[i])
	}
	return selection, true
}

// dfs enumerates combinations in canonical order: non-increasing percents, increasing candidate index.
func (s *combinationSearch) dfs(start, remaining int, score osmomath.Int) {
	if remaining == 0 {
		s.consider(score)
		return
	}

	slotsLeft := s.maxSplits - len(s.selection)
	if slotsLeft <= 0 || !s.boundOK[remaining] {
		return
	}
	if s.found && score.Add(s.bound[remaining]).LT(s.bestScore) {
		return
	}

	for i := start; i < len(s.candidates); i++ {
		p := int(s.candidates[i].Percent)
		if p > remaining {
			continue
		}

		// Later candidates have smaller or equal percents and cannot cover more.
		rest := remaining - p
		if rest > p*(slotsLeft-1) {
			break
		}

		if s.overlaps(i) {
			continue
		}

		s.mark(i)
		s.selection = append(s.selection, i)

		s.dfs(i+1, rest, score.Add(s.scores[i]))

		s.selection = s.selection[:len(s.selection)-1]
		s.unmark(i)
	}
}

func (s *combinationSearch) overlaps(i int) bool {
	for _, id := range s.poolIDs[i] {
		if _, ok := s.usedPools[id]; ok {
			return true
		}
	}
	return false
}

func (s *combinationSearch) mark(i int) {
	for _, id := range s.poolIDs[i] {
		s.usedPools[id] = struct{}{}
	}
}

func (s *combinationSearch) unmark(i int) {
	for _, id := range s.poolIDs[i] {
		delete(s.usedPools, id)
	}
}

func (s *combinationSearch) consider(score osmomath.Int) {
	key := s.selectionKey(s.selection)

	better := !s.found ||
		score.GT(s.bestScore) ||
		(score.Equal(s.bestScore) && len(s.selection) < len(s.best)) ||
		(score.Equal(s.bestScore) && len(s.selection) == len(s.best) && key < s.bestKey)
	if !better {
		return
	}

	s.found = true
	s.bestScore = score
	s.bestKey = key
	s.best = append(s.best[:0], s.selection...)
}

func (s *combinationSearch) selectionKey(selection []int) string {
	ids := make([]string, 0, len(selection))
	for _, i := range selection {
		ids = append(ids, s.candidates[i].Route.ID())
	}
	return strings.Join(ids, ",")
}

// buildBestRoutes aggregates the selected quotes. selection is ordered by percent descending.
func buildBestRoutes(amount domain.CurrencyAmount, quoteCurrency domain.Currency, selection []domain.RouteWithValidQuote, tradeType domain.TradeType) *domain.BestRoutes {
	sliceSum := osmomath.ZeroInt()
	for _, q := range selection {
		sliceSum = sliceSum.Add(q.Amount.Amount)
	}
	dust := amount.Amount.Sub(sliceSum)

	var (
		routes           = make([]domain.RouteWithAmounts, 0, len(selection))
		quoteSum         = osmomath.ZeroInt()
		adjustedSum      = osmomath.ZeroInt()
		gasEstimate      = osmomath.ZeroInt()
		gasInQuoteToken  = osmomath.ZeroInt()
		gasEstimateInUSD = osmomath.ZeroDec()
	)

	for i, q := range selection {
		fixed := q.Amount.Amount
		if i == 0 {
			fixed = fixed.Add(dust)
		}

		quoteSum = quoteSum.Add(q.Quote.Amount)
		adjustedSum = adjustedSum.Add(q.QuoteAdjustedForGas.Amount)
		gasEstimate = gasEstimate.Add(q.GasEstimate)
		gasInQuoteToken = gasInQuoteToken.Add(q.GasCostInToken.Amount)
		if !q.GasCostInUSD.IsNil() {
			gasEstimateInUSD = gasEstimateInUSD.Add(q.GasCostInUSD)
		}

		routeWithAmounts := domain.RouteWithAmounts{
			Route:       q.Route,
			Percent:     q.Percent,
			GasEstimate: q.GasEstimate,
		}
		if tradeType == domain.TradeTypeExactInput {
			routeWithAmounts.InputAmount = domain.NewCurrencyAmount(amount.Currency, fixed)
			routeWithAmounts.OutputAmount = domain.NewCurrencyAmount(quoteCurrency, q.Quote.Amount)
		} else {
			routeWithAmounts.InputAmount = domain.NewCurrencyAmount(quoteCurrency, q.Quote.Amount)
			routeWithAmounts.OutputAmount = domain.NewCurrencyAmount(amount.Currency, fixed)
		}
		routes = append(routes, routeWithAmounts)
	}

	best := &domain.BestRoutes{
		Routes:                  routes,
		GasEstimate:             gasEstimate,
		GasEstimateInUSD:        gasEstimateInUSD,
		GasEstimateInQuoteToken: domain.NewCurrencyAmount(quoteCurrency, gasInQuoteToken),
		QuoteAdjustedForGas:     domain.NewCurrencyAmount(quoteCurrency, adjustedSum),
	}
	if tradeType == domain.TradeTypeExactInput {
		best.InputAmount = amount
		best.OutputAmount = domain.NewCurrencyAmount(quoteCurrency, quoteSum)
	} else {
		best.InputAmount = domain.NewCurrencyAmount(quoteCurrency, quoteSum)
		best.OutputAmount = amount
	}
	return best
}

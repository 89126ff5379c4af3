package usecase

import (
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/router/usecase/route"
)

// ComputeAllRoutes returns every simple path of at most maxHops pools leading from tokenIn to tokenOut.
// No pool and no currency appears twice in a route. Native currencies are searched through their
// wrapped tokens while the returned routes keep the currencies as given.
// Routes are emitted in depth first order over the given pools.
func ComputeAllRoutes(tokenIn, tokenOut domain.Currency, pools []domain.Pool, maxHops int) []domain.Route {
	if maxHops <= 0 || len(pools) == 0 {
		return []domain.Route{}
	}

	wrappedIn := tokenIn.Wrapped()
	wrappedOut := tokenOut.Wrapped()
	if wrappedIn.Equals(wrappedOut) {
		return []domain.Route{}
	}

	finder := routeFinder{
		tokenIn:      tokenIn,
		tokenOut:     tokenOut,
		wrappedOut:   wrappedOut,
		pools:        pools,
		maxHops:      maxHops,
		usedPools:    make([]bool, len(pools)),
		visited:      map[string]struct{}{wrappedIn.Key(): {}},
		currentRoute: make([]domain.Pool, 0, maxHops),
		routes:       []domain.Route{},
	}
	finder.search(wrappedIn)

	return finder.routes
}

type routeFinder struct {
	tokenIn    domain.Currency
	tokenOut   domain.Currency
	wrappedOut domain.Currency
	pools      []domain.Pool
	maxHops    int

	usedPools    []bool
	visited      map[string]struct{}
	currentRoute []domain.Pool

	routes []domain.Route
}

func (f *routeFinder) search(current domain.Currency) {
	if len(f.currentRoute) >= f.maxHops {
		return
	}

	for i, pool := range f.pools {
		if f.usedPools[i] || !pool.Involves(current) {
			continue
		}

		next := pool.Other(current)
		if next.Equals(f.wrappedOut) {
			f.emit(pool)
			continue
		}

		if _, ok := f.visited[next.Key()]; ok {
			continue
		}

		f.usedPools[i] = true
		f.visited[next.Key()] = struct{}{}
		f.currentRoute = append(f.currentRoute, pool)

		f.search(next)

		f.currentRoute = f.currentRoute[:len(f.currentRoute)-1]
		delete(f.visited, next.Key())
		f.usedPools[i] = false
	}
}

func (f *routeFinder) emit(last domain.Pool) {
	routePools := make([]domain.Pool, len(f.currentRoute), len(f.currentRoute)+1)
	copy(routePools, f.currentRoute)
	routePools = append(routePools, last)

	r, err := route.New(f.tokenIn, f.tokenOut, routePools)
	if err != nil {
		// The search only follows pools holding the current currency.
		panic(err)
	}
	f.routes = append(f.routes, r)
}

// hasDirectRoute returns true if any route is a single hop.
func hasDirectRoute(routes []domain.Route) bool {
	for _, r := range routes {
		if r.HopCount() == 1 {
			return true
		}
	}
	return false
}

// filterRoutesForTradeType drops the routes a trade type cannot be quoted on.
// Exact output quoting is not supported across protocols.
func filterRoutesForTradeType(routes []domain.Route, tradeType domain.TradeType) []domain.Route {
	if tradeType != domain.TradeTypeExactOutput {
		return routes
	}

	filtered := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		if r.GetType() == domain.RouteTypeMixed {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// filterPoolsByType keeps the pools whose type is allowed. Empty allowed keeps all.
func filterPoolsByType(pools []domain.Pool, allowed []domain.PoolType) []domain.Pool {
	if len(allowed) == 0 {
		return pools
	}

	filtered := make([]domain.Pool, 0, len(pools))
	for _, pool := range pools {
		if domain.IsPoolTypeAllowed(pool.GetType(), allowed) {
			filtered = append(filtered, pool)
		}
	}
	return filtered
}

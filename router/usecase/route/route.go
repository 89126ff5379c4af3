package route

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plunderswap/sor/domain"
)

var _ domain.Route = &RouteImpl{}

// RouteImpl is a path of pools from Input to Output.
// Input and Output may be native currencies while the pools hold their wrapped tokens.
type RouteImpl struct {
	Input  domain.Currency `json:"input"`
	Output domain.Currency `json:"output"`
	Pools  []domain.Pool   `json:"-"`
	// Path has len(Pools)+1 currencies, Input first and Output last.
	Path []domain.Currency `json:"path"`
}

var (
	routeSimulationPanicCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sor_route_simulation_panic_total",
			Help: "Total number of panics recovered while simulating swaps along a route",
		},
		[]string{"route_type"},
	)
)

func init() {
	prometheus.MustRegister(routeSimulationPanicCounter)
}

// New builds a route from input through pools, deriving the path.
// Returns an error if a pool does not hold the current currency of the path.
func New(input, output domain.Currency, pools []domain.Pool) (*RouteImpl, error) {
	if len(pools) == 0 {
		return nil, fmt.Errorf("route from (%s) to (%s) has no pools", input, output)
	}

	path := make([]domain.Currency, 0, len(pools)+1)
	path = append(path, input)

	current := input
	for i, pool := range pools {
		if !pool.Involves(current) {
			return nil, domain.CurrencyNotInPoolError{PoolID: pool.GetID(), Currency: current.String()}
		}
		next := pool.Other(current)
		if i == len(pools)-1 {
			if !output.Wrapped().Equals(next) {
				return nil, fmt.Errorf("route ends in (%s), expected (%s)", next, output)
			}
			next = output
		}
		path = append(path, next)
		current = next
	}

	return &RouteImpl{
		Input:  input,
		Output: output,
		Pools:  pools,
		Path:   path,
	}, nil
}

// GetInput implements domain.Route.
func (r *RouteImpl) GetInput() domain.Currency {
	return r.Input
}

// GetOutput implements domain.Route.
func (r *RouteImpl) GetOutput() domain.Currency {
	return r.Output
}

// GetPools implements domain.Route.
func (r *RouteImpl) GetPools() []domain.Pool {
	return r.Pools
}

// GetPath implements domain.Route.
func (r *RouteImpl) GetPath() []domain.Currency {
	return r.Path
}

// HopCount implements domain.Route.
func (r *RouteImpl) HopCount() int {
	return len(r.Pools)
}

// GetType implements domain.Route.
// A route is of a single protocol type if all of its pools are, MIXED otherwise.
func (r *RouteImpl) GetType() domain.RouteType {
	if len(r.Pools) == 0 {
		return domain.RouteTypeMixed
	}

	first := r.Pools[0].GetType()
	for _, pool := range r.Pools[1:] {
		if pool.GetType() != first {
			return domain.RouteTypeMixed
		}
	}

	switch first {
	case domain.PoolTypeV2:
		return domain.RouteTypeV2
	case domain.PoolTypeV3:
		return domain.RouteTypeV3
	case domain.PoolTypeStable:
		return domain.RouteTypeStable
	default:
		return domain.RouteTypeMixed
	}
}

// ID implements domain.Route.
func (r *RouteImpl) ID() string {
	ids := make([]string, 0, len(r.Pools))
	for _, pool := range r.Pools {
		ids = append(ids, pool.GetID())
	}
	return strings.Join(ids, "|")
}

// CalculateTokenOutByTokenIn simulates an exact input swap through every pool in order.
func (r *RouteImpl) CalculateTokenOutByTokenIn(tokenIn domain.CurrencyAmount) (quote domain.RouteQuote, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			routeSimulationPanicCounter.WithLabelValues(r.GetType().String()).Inc()
			quote = domain.RouteQuote{}
			err = fmt.Errorf("error when calculating out by in in route (%s): %v", r.ID(), rec)
		}
	}()

	ticks := make([]uint32, 0, len(r.Pools))
	current := tokenIn
	for _, pool := range r.Pools {
		if current.IsZero() {
			return domain.RouteQuote{}, domain.InsufficientLiquidityError{PoolID: pool.GetID()}
		}

		result, err := pool.CalculateTokenOutByTokenIn(current)
		if err != nil {
			return domain.RouteQuote{}, err
		}

		ticks = append(ticks, result.InitializedTicksCrossed)
		current = result.Amount
	}

	return domain.RouteQuote{
		Amount:                  domain.NewCurrencyAmount(r.Output, current.Amount),
		InitializedTicksCrossed: ticks,
	}, nil
}

// CalculateTokenInByTokenOut simulates an exact output swap through every pool in reverse.
func (r *RouteImpl) CalculateTokenInByTokenOut(tokenOut domain.CurrencyAmount) (quote domain.RouteQuote, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			routeSimulationPanicCounter.WithLabelValues(r.GetType().String()).Inc()
			quote = domain.RouteQuote{}
			err = fmt.Errorf("error when calculating in by out in route (%s): %v", r.ID(), rec)
		}
	}()

	ticks := make([]uint32, len(r.Pools))
	current := tokenOut
	for i := len(r.Pools) - 1; i >= 0; i-- {
		pool := r.Pools[i]
		if current.IsZero() {
			return domain.RouteQuote{}, domain.InsufficientLiquidityError{PoolID: pool.GetID()}
		}

		result, err := pool.CalculateTokenInByTokenOut(current)
		if err != nil {
			return domain.RouteQuote{}, err
		}

		ticks[i] = result.InitializedTicksCrossed
		current = result.Amount
	}

	return domain.RouteQuote{
		Amount:                  domain.NewCurrencyAmount(r.Input, current.Amount),
		InitializedTicksCrossed: ticks,
	}, nil
}

// String implements domain.Route.
func (r *RouteImpl) String() string {
	var strBuilder strings.Builder
	for i, currency := range r.Path {
		if i > 0 {
			pool := r.Pools[i-1]
			_, err := strBuilder.WriteString(fmt.Sprintf(" -[%s %s]-> ", pool.GetType(), pool.GetID()))
			if err != nil {
				panic(err)
			}
		}
		_, err := strBuilder.WriteString(currency.String())
		if err != nil {
			panic(err)
		}
	}
	return strBuilder.String()
}

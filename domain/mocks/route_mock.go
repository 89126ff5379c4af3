package mocks

import (
	"strings"

	"github.com/plunderswap/sor/domain"
)

// RouteMock is a mock implementation of domain.Route holding static fields.
// It cannot simulate swaps.
type RouteMock struct {
	Input  domain.Currency
	Output domain.Currency
	Pools  []domain.Pool
	Path   []domain.Currency
	Type   domain.RouteType
}

var _ domain.Route = &RouteMock{}

// GetInput implements domain.Route.
func (r *RouteMock) GetInput() domain.Currency {
	return r.Input
}

// GetOutput implements domain.Route.
func (r *RouteMock) GetOutput() domain.Currency {
	return r.Output
}

// GetPools implements domain.Route.
func (r *RouteMock) GetPools() []domain.Pool {
	return r.Pools
}

// GetPath implements domain.Route.
func (r *RouteMock) GetPath() []domain.Currency {
	return r.Path
}

// GetType implements domain.Route.
func (r *RouteMock) GetType() domain.RouteType {
	return r.Type
}

// ID implements domain.Route.
func (r *RouteMock) ID() string {
	ids := make([]string, 0, len(r.Pools))
	for _, pool := range r.Pools {
		ids = append(ids, pool.GetID())
	}
	return strings.Join(ids, "|")
}

// HopCount implements domain.Route.
func (r *RouteMock) HopCount() int {
	return len(r.Pools)
}

// String implements domain.Route.
func (r *RouteMock) String() string {
	return r.ID()
}

package mocks

import (
	"context"

	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// PriceOracleMock is a mock implementation of domain.PriceOracle.
// With no func set, it serves Prices keyed by currency key and returns
// domain.ErrPriceNotFound for the others.
type PriceOracleMock struct {
	GetUSDPriceFunc func(ctx context.Context, currency domain.Currency) (osmomath.Dec, error)

	Prices map[string]osmomath.Dec
}

var _ domain.PriceOracle = &PriceOracleMock{}

// GetUSDPrice implements domain.PriceOracle.
func (m *PriceOracleMock) GetUSDPrice(ctx context.Context, currency domain.Currency) (osmomath.Dec, error) {
	if m.GetUSDPriceFunc != nil {
		return m.GetUSDPriceFunc(ctx, currency)
	}
	price, ok := m.Prices[currency.Key()]
	if !ok {
		return osmomath.Dec{}, domain.ErrPriceNotFound
	}
	return price, nil
}

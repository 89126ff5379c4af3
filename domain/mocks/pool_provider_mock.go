package mocks

import (
	"context"
	"sync/atomic"

	"github.com/plunderswap/sor/domain"
)

// PoolProviderMock is a mock implementation of domain.PoolProvider.
// With no func set, it serves Pools filtered by the requested protocols.
type PoolProviderMock struct {
	GetCandidatePoolsFunc func(ctx context.Context, params domain.CandidatePoolsParams) ([]domain.Pool, error)

	Pools []domain.Pool

	calls atomic.Int32
}

var _ domain.PoolProvider = &PoolProviderMock{}

// GetCandidatePools implements domain.PoolProvider.
func (m *PoolProviderMock) GetCandidatePools(ctx context.Context, params domain.CandidatePoolsParams) ([]domain.Pool, error) {
	m.calls.Add(1)
	if m.GetCandidatePoolsFunc != nil {
		return m.GetCandidatePoolsFunc(ctx, params)
	}

	result := make([]domain.Pool, 0, len(m.Pools))
	for _, pool := range m.Pools {
		if domain.IsPoolTypeAllowed(pool.GetType(), params.Protocols) {
			result = append(result, pool)
		}
	}
	return result, nil
}

// Calls returns the number of GetCandidatePools calls.
func (m *PoolProviderMock) Calls() int {
	return int(m.calls.Load())
}

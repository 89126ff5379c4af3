package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
)

// PoolsUsecaseMock is a mock implementation of mvc.PoolsUsecase.
type PoolsUsecaseMock struct {
	GetCandidatePoolsFunc    func(ctx context.Context, params domain.CandidatePoolsParams) ([]domain.Pool, error)
	GetAllPoolsFunc          func(ctx context.Context) ([]domain.Pool, error)
	GetPoolFunc              func(ctx context.Context, address common.Address) (domain.Pool, error)
	StorePoolsFunc           func(ctx context.Context, blockNumber uint64, pools []domain.Pool) error
	GetLatestBlockNumberFunc func(ctx context.Context) uint64
}

var _ mvc.PoolsUsecase = &PoolsUsecaseMock{}

// GetCandidatePools implements mvc.PoolsUsecase.
func (m *PoolsUsecaseMock) GetCandidatePools(ctx context.Context, params domain.CandidatePoolsParams) ([]domain.Pool, error) {
	if m.GetCandidatePoolsFunc != nil {
		return m.GetCandidatePoolsFunc(ctx, params)
	}
	panic("unimplemented")
}

// GetAllPools implements mvc.PoolsUsecase.
func (m *PoolsUsecaseMock) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	if m.GetAllPoolsFunc != nil {
		return m.GetAllPoolsFunc(ctx)
	}
	panic("unimplemented")
}

// GetPool implements mvc.PoolsUsecase.
func (m *PoolsUsecaseMock) GetPool(ctx context.Context, address common.Address) (domain.Pool, error) {
	if m.GetPoolFunc != nil {
		return m.GetPoolFunc(ctx, address)
	}
	panic("unimplemented")
}

// StorePools implements mvc.PoolsUsecase.
func (m *PoolsUsecaseMock) StorePools(ctx context.Context, blockNumber uint64, pools []domain.Pool) error {
	if m.StorePoolsFunc != nil {
		return m.StorePoolsFunc(ctx, blockNumber, pools)
	}
	panic("unimplemented")
}

// GetLatestBlockNumber implements mvc.PoolsUsecase.
func (m *PoolsUsecaseMock) GetLatestBlockNumber(ctx context.Context) uint64 {
	if m.GetLatestBlockNumberFunc != nil {
		return m.GetLatestBlockNumberFunc(ctx)
	}
	return 0
}

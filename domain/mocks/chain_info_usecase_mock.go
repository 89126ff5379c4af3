package mocks

import (
	"context"

	"github.com/plunderswap/sor/domain/mvc"
)

var _ mvc.ChainInfoUsecase = &ChainInfoUsecaseMock{}

// ChainInfoUsecaseMock is a mock implementation of the ChainInfoUsecase interface
type ChainInfoUsecaseMock struct {
	GetLatestHeightFunc   func(ctx context.Context) (uint64, error)
	StoreLatestHeightFunc func(height uint64)
}

func (m *ChainInfoUsecaseMock) GetLatestHeight(ctx context.Context) (uint64, error) {
	if m.GetLatestHeightFunc != nil {
		return m.GetLatestHeightFunc(ctx)
	}
	return 0, nil
}

func (m *ChainInfoUsecaseMock) StoreLatestHeight(height uint64) {
	if m.StoreLatestHeightFunc != nil {
		m.StoreLatestHeightFunc(height)
	}
}

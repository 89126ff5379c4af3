package mvc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/plunderswap/sor/domain"
)

// PoolsUsecase represent the pool's usecases
type PoolsUsecase interface {
	domain.PoolProvider

	// GetAllPools returns every pool in the universe.
	GetAllPools(ctx context.Context) ([]domain.Pool, error)
	// GetPool returns the pool at the given address.
	GetPool(ctx context.Context, address common.Address) (domain.Pool, error)
	// StorePools replaces the pools snapshot for a block.
	StorePools(ctx context.Context, blockNumber uint64, pools []domain.Pool) error
	// GetLatestBlockNumber returns the block of the most recent snapshot.
	GetLatestBlockNumber(ctx context.Context) uint64
}

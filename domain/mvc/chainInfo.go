package mvc

import (
	"context"
)

type ChainInfoUsecase interface {
	// GetLatestHeight returns the latest observed block number.
	// Errors if it has not advanced within the allowed time.
	GetLatestHeight(ctx context.Context) (uint64, error)
	// StoreLatestHeight stores the latest observed block number.
	StoreLatestHeight(height uint64)
}

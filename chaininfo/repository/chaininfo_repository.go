package chaininforepo

import (
	"sync"
	"time"
)

// ChainInfoRepository represents the contract for a repository handling chain information
type ChainInfoRepository interface {
	// StoreLatestHeight stores the latest block number and the time it was observed.
	// Heights lower than the stored one are ignored.
	StoreLatestHeight(height uint64)

	// GetLatestHeight retrieves the latest block number and the time it was last advanced.
	GetLatestHeight() (uint64, time.Time)
}

var _ ChainInfoRepository = &chainInfoRepo{}

type chainInfoRepo struct {
	latestHeight uint64
	updatedAt    time.Time
	mu           sync.RWMutex

	now func() time.Time
}

// New creates a new repository for chain information
func New() ChainInfoRepository {
	return &chainInfoRepo{
		now: time.Now,
	}
}

// StoreLatestHeight implements ChainInfoRepository.
func (r *chainInfoRepo) StoreLatestHeight(height uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if height <= r.latestHeight {
		return
	}

	r.latestHeight = height
	r.updatedAt = r.now()
}

// GetLatestHeight implements ChainInfoRepository.
func (r *chainInfoRepo) GetLatestHeight() (uint64, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.latestHeight, r.updatedAt
}

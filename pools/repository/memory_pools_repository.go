package poolsrepo

import (
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/plunderswap/sor/domain"
)

// DefaultMaxSnapshots is the number of pool snapshots retained when none is configured.
const DefaultMaxSnapshots = 8

// PoolsRepository represents the contract for a repository holding pool snapshots by block.
type PoolsRepository interface {
	// StorePools stores the pools snapshot taken at blockNumber.
	// Storing a block that is already present replaces it.
	StorePools(blockNumber uint64, pools []domain.Pool)
	// GetPools returns the most recent snapshot taken at or before blockNumber
	// together with the block it was taken at. Block 0 means the latest snapshot.
	// Returns false if no such snapshot exists.
	GetPools(blockNumber uint64) (uint64, []domain.Pool, bool)
	// GetPool returns the pool at address from the latest snapshot.
	GetPool(address common.Address) (domain.Pool, bool)
	// GetPoolsByCurrency returns the pools of the snapshot at or before blockNumber that hold currency.
	GetPoolsByCurrency(blockNumber uint64, currency domain.Currency) []domain.Pool
	// GetLatestBlockNumber returns the block of the latest snapshot or 0 if empty.
	GetLatestBlockNumber() uint64
}

type poolsSnapshot struct {
	blockNumber uint64
	pools       []domain.Pool
	byAddress   map[common.Address]domain.Pool
	byCurrency  map[string][]domain.Pool
}

type poolsRepo struct {
	mu           sync.RWMutex
	snapshots    []*poolsSnapshot
	maxSnapshots int
}

var _ PoolsRepository = &poolsRepo{}

// New creates a new in-memory repository retaining up to maxSnapshots snapshots.
func New(maxSnapshots int) PoolsRepository {
	if maxSnapshots <= 0 {
		maxSnapshots = DefaultMaxSnapshots
	}
	return &poolsRepo{
		maxSnapshots: maxSnapshots,
	}
}

// StorePools implements PoolsRepository.
func (r *poolsRepo) StorePools(blockNumber uint64, pools []domain.Pool) {
	snapshot := newPoolsSnapshot(blockNumber, pools)

	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.snapshots), func(i int) bool { return r.snapshots[i].blockNumber >= blockNumber })
	if i < len(r.snapshots) && r.snapshots[i].blockNumber == blockNumber {
		r.snapshots[i] = snapshot
		return
	}

	r.snapshots = append(r.snapshots, nil)
	copy(r.snapshots[i+1:], r.snapshots[i:])
	r.snapshots[i] = snapshot

	// Evict the oldest.
	if len(r.snapshots) > r.maxSnapshots {
		r.snapshots = r.snapshots[len(r.snapshots)-r.maxSnapshots:]
	}
}

// GetPools implements PoolsRepository.
func (r *poolsRepo) GetPools(blockNumber uint64) (uint64, []domain.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshotAt(blockNumber)
	if !ok {
		return 0, nil, false
	}
	return snapshot.blockNumber, snapshot.pools, true
}

// GetPool implements PoolsRepository.
func (r *poolsRepo) GetPool(address common.Address) (domain.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshotAt(0)
	if !ok {
		return nil, false
	}
	pool, ok := snapshot.byAddress[address]
	return pool, ok
}

// GetPoolsByCurrency implements PoolsRepository.
func (r *poolsRepo) GetPoolsByCurrency(blockNumber uint64, currency domain.Currency) []domain.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshotAt(blockNumber)
	if !ok {
		return nil
	}
	return snapshot.byCurrency[currency.Wrapped().Key()]
}

// GetLatestBlockNumber implements PoolsRepository.
func (r *poolsRepo) GetLatestBlockNumber() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.snapshots) == 0 {
		return 0
	}
	return r.snapshots[len(r.snapshots)-1].blockNumber
}

// snapshotAt must be called with the lock held.
func (r *poolsRepo) snapshotAt(blockNumber uint64) (*poolsSnapshot, bool) {
	if len(r.snapshots) == 0 {
		return nil, false
	}
	if blockNumber == 0 {
		return r.snapshots[len(r.snapshots)-1], true
	}

	// First snapshot strictly after the block.
	i := sort.Search(len(r.snapshots), func(i int) bool { return r.snapshots[i].blockNumber > blockNumber })
	if i == 0 {
		return nil, false
	}
	return r.snapshots[i-1], true
}

func newPoolsSnapshot(blockNumber uint64, pools []domain.Pool) *poolsSnapshot {
	sorted := make([]domain.Pool, len(pools))
	copy(sorted, pools)
	// Stable pool order keeps route enumeration deterministic.
	sort.Slice(sorted, func(i, j int) bool {
		return strings.Compare(sorted[i].GetID(), sorted[j].GetID()) < 0
	})

	snapshot := &poolsSnapshot{
		blockNumber: blockNumber,
		pools:       sorted,
		byAddress:   make(map[common.Address]domain.Pool, len(sorted)),
		byCurrency:  make(map[string][]domain.Pool),
	}
	for _, pool := range sorted {
		snapshot.byAddress[pool.GetAddress()] = pool
		key0 := pool.GetCurrency0().Key()
		key1 := pool.GetCurrency1().Key()
		snapshot.byCurrency[key0] = append(snapshot.byCurrency[key0], pool)
		snapshot.byCurrency[key1] = append(snapshot.byCurrency[key1], pool)
	}
	return snapshot
}

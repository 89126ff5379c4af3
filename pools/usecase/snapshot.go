package usecase

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plunderswap/sor/domain/json"
	"github.com/plunderswap/sor/router/usecase/pools"
	"github.com/plunderswap/sor/sqsutil"
)

// PoolsSnapshot is the serialized pool universe at a block.
type PoolsSnapshot struct {
	BlockNumber uint64            `json:"blockNumber"`
	Pools       []pools.PoolModel `json:"pools"`
}

// ReadPoolsSnapshot reads a pools snapshot from a JSON file.
// Pools without a block number inherit the snapshot block.
func ReadPoolsSnapshot(path string) (PoolsSnapshot, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return PoolsSnapshot{}, err
	}

	var snapshot PoolsSnapshot
	if err := json.Unmarshal(bz, &snapshot); err != nil {
		return PoolsSnapshot{}, fmt.Errorf("failed to parse pools snapshot (%s): %w", path, err)
	}

	for i := range snapshot.Pools {
		if snapshot.Pools[i].BlockNumber == 0 {
			snapshot.Pools[i].BlockNumber = snapshot.BlockNumber
		}
	}

	return snapshot, nil
}

// WritePoolsSnapshot writes a pools snapshot to a JSON file, replacing any existing file.
// Missing directories are created.
func WritePoolsSnapshot(path string, snapshot PoolsSnapshot) error {
	bz, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return sqsutil.WriteBytes(filepath.Dir(path), filepath.Base(path), bz)
}

package chaininforepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	chaininforepo "github.com/plunderswap/sor/chaininfo/repository"
)

// TestStoreAndGetLatestHeight tests storing the latest blockchain height
func TestStoreAndGetLatestHeight(t *testing.T) {
	repo := chaininforepo.New()

	height, updatedAt := repo.GetLatestHeight()
	require.Zero(t, height)
	require.True(t, updatedAt.IsZero())

	repo.StoreLatestHeight(100)

	height, firstUpdate := repo.GetLatestHeight()
	require.Equal(t, uint64(100), height)
	require.False(t, firstUpdate.IsZero())

	// change height
	repo.StoreLatestHeight(200)

	height, secondUpdate := repo.GetLatestHeight()
	require.Equal(t, uint64(200), height)
	require.False(t, secondUpdate.Before(firstUpdate))
}

func TestStoreLatestHeight_IgnoresLowerHeights(t *testing.T) {
	repo := chaininforepo.New()

	repo.StoreLatestHeight(200)
	_, updatedAt := repo.GetLatestHeight()

	repo.StoreLatestHeight(150)
	repo.StoreLatestHeight(200)

	height, lastUpdate := repo.GetLatestHeight()
	require.Equal(t, uint64(200), height)
	require.Equal(t, updatedAt, lastUpdate)
}

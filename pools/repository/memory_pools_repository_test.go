package poolsrepo_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/plunderswap/sor/domain"
	poolsrepo "github.com/plunderswap/sor/pools/repository"
	"github.com/plunderswap/sor/router/usecase/routertesting"
)

type PoolsRepositoryTestSuite struct {
	suite.Suite
	repository poolsrepo.PoolsRepository
}

var (
	reserve = routertesting.Units(routertesting.TokenA, 1_000)

	poolAB   = routertesting.MustNewV2Pool(1, routertesting.TokenA, routertesting.TokenB, reserve, reserve)
	poolBC   = routertesting.MustNewV2Pool(2, routertesting.TokenB, routertesting.TokenC, reserve, reserve)
	poolAC   = routertesting.MustNewStablePool(3, routertesting.TokenA, routertesting.TokenC, reserve, reserve)
	poolWETH = routertesting.MustNewV2Pool(4, routertesting.WETH, routertesting.TokenA, reserve, reserve)
)

func TestPoolsRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PoolsRepositoryTestSuite))
}

func (s *PoolsRepositoryTestSuite) SetupTest() {
	s.repository = poolsrepo.New(3)
}

func (s *PoolsRepositoryTestSuite) TestGetPools_Empty() {
	t := s.T()

	_, pools, ok := s.repository.GetPools(0)
	assert.False(t, ok)
	assert.Zero(t, len(pools))

	assert.Equal(t, uint64(0), s.repository.GetLatestBlockNumber())

	_, ok = s.repository.GetPool(poolAB.GetAddress())
	assert.False(t, ok)

	assert.Zero(t, len(s.repository.GetPoolsByCurrency(0, routertesting.TokenA)))
}

func (s *PoolsRepositoryTestSuite) TestGetPools_ByBlock() {
	s.repository.StorePools(100, []domain.Pool{poolAB})
	s.repository.StorePools(300, []domain.Pool{poolAB, poolBC, poolAC})
	// Out of order insert.
	s.repository.StorePools(200, []domain.Pool{poolAB, poolBC})

	tests := []struct {
		name          string
		blockNumber   uint64
		expectedOK    bool
		expectedBlock uint64
		expectedCount int
	}{
		{name: "zero is latest", blockNumber: 0, expectedOK: true, expectedBlock: 300, expectedCount: 3},
		{name: "exact block", blockNumber: 200, expectedOK: true, expectedBlock: 200, expectedCount: 2},
		{name: "between blocks pins to the previous snapshot", blockNumber: 250, expectedOK: true, expectedBlock: 200, expectedCount: 2},
		{name: "after latest", blockNumber: 1_000, expectedOK: true, expectedBlock: 300, expectedCount: 3},
		{name: "oldest block", blockNumber: 100, expectedOK: true, expectedBlock: 100, expectedCount: 1},
		{name: "before first snapshot", blockNumber: 99, expectedOK: false},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			t := s.T()

			block, pools, ok := s.repository.GetPools(tc.blockNumber)
			assert.Equal(t, tc.expectedOK, ok)
			if !tc.expectedOK {
				return
			}
			assert.Equal(t, tc.expectedBlock, block)
			assert.Equal(t, tc.expectedCount, len(pools))
		})
	}

	assert.Equal(s.T(), uint64(300), s.repository.GetLatestBlockNumber())
}

func (s *PoolsRepositoryTestSuite) TestStorePools_SortsByID() {
	t := s.T()

	s.repository.StorePools(100, []domain.Pool{poolAC, poolAB, poolBC})

	_, pools, ok := s.repository.GetPools(0)
	assert.True(t, ok)
	assert.Equal(t, 3, len(pools))
	for i := 1; i < len(pools); i++ {
		assert.True(t, pools[i-1].GetID() < pools[i].GetID())
	}
}

func (s *PoolsRepositoryTestSuite) TestStorePools_ReplacesBlock() {
	t := s.T()

	s.repository.StorePools(100, []domain.Pool{poolAB, poolBC})
	s.repository.StorePools(100, []domain.Pool{poolAC})

	block, pools, ok := s.repository.GetPools(100)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), block)
	assert.Equal(t, 1, len(pools))
	assert.Equal(t, poolAC.GetID(), pools[0].GetID())
}

func (s *PoolsRepositoryTestSuite) TestStorePools_EvictsOldest() {
	t := s.T()

	for _, block := range []uint64{100, 200, 300, 400} {
		s.repository.StorePools(block, []domain.Pool{poolAB})
	}

	_, _, ok := s.repository.GetPools(150)
	assert.False(t, ok)

	block, _, ok := s.repository.GetPools(200)
	assert.True(t, ok)
	assert.Equal(t, uint64(200), block)

	assert.Equal(t, uint64(400), s.repository.GetLatestBlockNumber())
}

func (s *PoolsRepositoryTestSuite) TestGetPool() {
	t := s.T()

	s.repository.StorePools(100, []domain.Pool{poolAB, poolBC})
	s.repository.StorePools(200, []domain.Pool{poolAC})

	// Only the latest snapshot is searched.
	_, ok := s.repository.GetPool(poolAB.GetAddress())
	assert.False(t, ok)

	pool, ok := s.repository.GetPool(poolAC.GetAddress())
	assert.True(t, ok)
	assert.Equal(t, poolAC.GetID(), pool.GetID())

	_, ok = s.repository.GetPool(common.HexToAddress("0xdead"))
	assert.False(t, ok)
}

func (s *PoolsRepositoryTestSuite) TestGetPoolsByCurrency() {
	t := s.T()

	s.repository.StorePools(100, []domain.Pool{poolAB, poolBC, poolAC, poolWETH})

	assert.Equal(t, 3, len(s.repository.GetPoolsByCurrency(0, routertesting.TokenA)))
	assert.Equal(t, 2, len(s.repository.GetPoolsByCurrency(100, routertesting.TokenC)))
	assert.Zero(t, len(s.repository.GetPoolsByCurrency(0, routertesting.TokenD)))

	// The native currency resolves to its wrapped pools.
	native := s.repository.GetPoolsByCurrency(0, routertesting.ETH)
	assert.Equal(t, 1, len(native))
	assert.Equal(t, poolWETH.GetID(), native[0].GetID())

	assert.Zero(t, len(s.repository.GetPoolsByCurrency(50, routertesting.TokenA)))
}

func TestNew_DefaultMaxSnapshots(t *testing.T) {
	repository := poolsrepo.New(0)
	for block := uint64(1); block <= poolsrepo.DefaultMaxSnapshots+1; block++ {
		repository.StorePools(block, []domain.Pool{poolAB})
	}

	_, _, ok := repository.GetPools(1)
	assert.False(t, ok)

	block, _, ok := repository.GetPools(2)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), block)
}

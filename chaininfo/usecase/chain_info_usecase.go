package usecase

import (
	"context"
	"errors"
	"time"

	chaininforepo "github.com/plunderswap/sor/chaininfo/repository"
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
)

type chainInfoUseCase struct {
	chainInfoRepository chaininforepo.ChainInfoRepository

	// An RPC node may stop making progress while still answering requests.
	// The height must advance within maxHeightUpdateDelta.
	maxHeightUpdateDelta time.Duration
	now                  func() time.Time
}

// DefaultMaxAllowedHeightUpdateTimeDeltaSecs is the max number of seconds allowed without a new block.
const DefaultMaxAllowedHeightUpdateTimeDeltaSecs = 30

var (
	_ mvc.ChainInfoUsecase = &chainInfoUseCase{}

	errNoHeight = errors.New("no block height has been observed yet")
)

// NewChainInfoUsecase creates a chain info usecase. A non-positive maxHeightUpdateDeltaSecs
// uses DefaultMaxAllowedHeightUpdateTimeDeltaSecs.
func NewChainInfoUsecase(chainInfoRepository chaininforepo.ChainInfoRepository, maxHeightUpdateDeltaSecs int) *chainInfoUseCase {
	if maxHeightUpdateDeltaSecs <= 0 {
		maxHeightUpdateDeltaSecs = DefaultMaxAllowedHeightUpdateTimeDeltaSecs
	}
	return &chainInfoUseCase{
		chainInfoRepository:  chainInfoRepository,
		maxHeightUpdateDelta: time.Duration(maxHeightUpdateDeltaSecs) * time.Second,
		now:                  time.Now,
	}
}

// GetLatestHeight implements mvc.ChainInfoUsecase.
func (p *chainInfoUseCase) GetLatestHeight(ctx context.Context) (uint64, error) {
	latestHeight, updatedAt := p.chainInfoRepository.GetLatestHeight()
	if latestHeight == 0 {
		return 0, errNoHeight
	}

	timeDelta := p.now().Sub(updatedAt)
	if timeDelta > p.maxHeightUpdateDelta {
		return 0, domain.StaleHeightError{
			StoredHeight:            latestHeight,
			TimeSinceLastUpdate:     int(timeDelta.Seconds()),
			MaxAllowedTimeDeltaSecs: int(p.maxHeightUpdateDelta.Seconds()),
		}
	}

	return latestHeight, nil
}

// StoreLatestHeight implements mvc.ChainInfoUsecase.
func (p *chainInfoUseCase) StoreLatestHeight(height uint64) {
	p.chainInfoRepository.StoreLatestHeight(height)
}

// BlockNumberFunc returns the latest height as a router block number resolver.
func (p *chainInfoUseCase) BlockNumberFunc() domain.BlockNumberFunc {
	return p.GetLatestHeight
}

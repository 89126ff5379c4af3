package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/cache"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	poolsrepo "github.com/plunderswap/sor/pools/repository"
	"github.com/plunderswap/sor/router/usecase/pools"
)

const (
	defaultCandidatePoolsCacheSize   = 1024
	defaultCandidatePoolsCacheExpiry = 30 * time.Second
)

var (
	poolCacheHitsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: domain.SORPoolCacheHitsMetricName,
			Help: "Total number of candidate pool cache hits",
		},
	)
	poolCacheMissesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: domain.SORPoolCacheMissesMetricName,
			Help: "Total number of candidate pool cache misses",
		},
	)
)

func init() {
	prometheus.MustRegister(poolCacheHitsCounter)
	prometheus.MustRegister(poolCacheMissesCounter)
}

type poolsUseCase struct {
	repository poolsrepo.PoolsRepository
	// keyed by wrapped token key
	baseTokens map[string]struct{}

	candidatePoolsCache *cache.Cache[string, []domain.Pool]

	logger log.Logger
}

var _ mvc.PoolsUsecase = &poolsUseCase{}

// NewPoolsUsecase will create a new pools use case object.
// Base tokens are token addresses used as intermediaries when selecting candidate pools
// for chainID. No base tokens means every pool of the snapshot is a candidate.
func NewPoolsUsecase(poolsConfig *domain.PoolsConfig, chainID domain.ChainID, repository poolsrepo.PoolsRepository, logger log.Logger) (mvc.PoolsUsecase, error) {
	baseTokens := make(map[string]struct{}, len(poolsConfig.BaseTokens))
	for _, baseToken := range poolsConfig.BaseTokens {
		var currency domain.Currency
		if domain.IsNativeAlias(baseToken) {
			currency = domain.NativeCurrency(chainID).Wrapped()
		} else {
			address, ok := domain.ParseAddress(baseToken)
			if !ok {
				return nil, fmt.Errorf("invalid base token address (%s)", baseToken)
			}
			currency = domain.NewToken(chainID, address, 0, "")
		}
		baseTokens[currency.Key()] = struct{}{}
	}

	cacheSize := poolsConfig.CacheSize
	if cacheSize == 0 {
		cacheSize = defaultCandidatePoolsCacheSize
	}
	cacheExpiry := defaultCandidatePoolsCacheExpiry
	if poolsConfig.CacheExpirySeconds > 0 {
		cacheExpiry = time.Duration(poolsConfig.CacheExpirySeconds) * time.Second
	}

	return &poolsUseCase{
		repository:          repository,
		baseTokens:          baseTokens,
		candidatePoolsCache: cache.New[string, []domain.Pool](cacheSize, cacheExpiry),
		logger:              logger,
	}, nil
}

// LoadPoolsSnapshot reads the snapshot at path and stores its valid pools.
// Invalid pools are logged and skipped.
func LoadPoolsSnapshot(ctx context.Context, poolsUsecase mvc.PoolsUsecase, path string, logger log.Logger) error {
	snapshot, err := ReadPoolsSnapshot(path)
	if err != nil {
		return err
	}

	validPools, errs := pools.NewPools(snapshot.Pools)
	for _, err := range errs {
		logger.Error("skipping invalid pool in snapshot", zap.String("path", path), zap.Error(err))
	}

	logger.Info("loaded pools snapshot", zap.Uint64("block_number", snapshot.BlockNumber), zap.Int("num_pools", len(validPools)), zap.Int("num_invalid", len(errs)))

	return poolsUsecase.StorePools(ctx, snapshot.BlockNumber, validPools)
}

// GetAllPools implements mvc.PoolsUsecase.
func (p *poolsUseCase) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	_, allPools, ok := p.repository.GetPools(0)
	if !ok {
		return nil, domain.PoolsSnapshotNotFoundError{}
	}
	return allPools, nil
}

// GetPool implements mvc.PoolsUsecase.
func (p *poolsUseCase) GetPool(ctx context.Context, address common.Address) (domain.Pool, error) {
	pool, ok := p.repository.GetPool(address)
	if !ok {
		return nil, domain.PoolNotFoundError{PoolID: strings.ToLower(address.Hex())}
	}
	return pool, nil
}

// StorePools implements mvc.PoolsUsecase.
func (p *poolsUseCase) StorePools(ctx context.Context, blockNumber uint64, pools []domain.Pool) error {
	for _, pool := range pools {
		if pool.GetBlockNumber() > blockNumber {
			return fmt.Errorf("pool (%s) is at block (%d), after snapshot block (%d)", pool.GetID(), pool.GetBlockNumber(), blockNumber)
		}
	}

	p.repository.StorePools(blockNumber, pools)
	// Cached candidates of a replaced block are stale.
	p.candidatePoolsCache.Purge()
	return nil
}

// GetLatestBlockNumber implements mvc.PoolsUsecase.
func (p *poolsUseCase) GetLatestBlockNumber(ctx context.Context) uint64 {
	return p.repository.GetLatestBlockNumber()
}

// GetCandidatePools implements domain.PoolProvider.
// A pool is a candidate if both of its tokens are either one of the pair or a base token.
// Results are cached per pair, snapshot block and protocols.
func (p *poolsUseCase) GetCandidatePools(ctx context.Context, params domain.CandidatePoolsParams) ([]domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshotBlock, snapshotPools, ok := p.repository.GetPools(params.BlockNumber)
	if !ok {
		return nil, domain.PoolsSnapshotNotFoundError{BlockNumber: params.BlockNumber}
	}

	currencyA := params.CurrencyA.Wrapped()
	currencyB := params.CurrencyB.Wrapped()

	cacheKey := formatCandidatePoolsCacheKey(currencyA, currencyB, snapshotBlock, params.Protocols)
	if candidates, ok := p.candidatePoolsCache.Get(cacheKey); ok {
		poolCacheHitsCounter.Inc()
		return candidates, nil
	}
	poolCacheMissesCounter.Inc()

	allowed := make(map[string]struct{}, len(p.baseTokens)+2)
	for key := range p.baseTokens {
		allowed[key] = struct{}{}
	}
	allowed[currencyA.Key()] = struct{}{}
	allowed[currencyB.Key()] = struct{}{}

	candidates := make([]domain.Pool, 0)
	for _, pool := range snapshotPools {
		if !domain.IsPoolTypeAllowed(pool.GetType(), params.Protocols) {
			continue
		}

		if len(p.baseTokens) > 0 {
			_, ok0 := allowed[pool.GetCurrency0().Key()]
			_, ok1 := allowed[pool.GetCurrency1().Key()]
			if !ok0 || !ok1 {
				continue
			}
		}

		candidates = append(candidates, pool)
	}

	p.logger.Debug("candidate pools selected",
		zap.Stringer("currency_a", currencyA),
		zap.Stringer("currency_b", currencyB),
		zap.Uint64("block_number", snapshotBlock),
		zap.Int("num_candidates", len(candidates)),
	)

	p.candidatePoolsCache.Set(cacheKey, candidates)

	return candidates, nil
}

// formatCandidatePoolsCacheKey is independent of the pair order.
func formatCandidatePoolsCacheKey(currencyA, currencyB domain.Currency, blockNumber uint64, protocols []domain.PoolType) string {
	keyA, keyB := currencyA.Key(), currencyB.Key()
	if keyB < keyA {
		keyA, keyB = keyB, keyA
	}

	protocolNames := make([]string, 0, len(protocols))
	for _, protocol := range protocols {
		protocolNames = append(protocolNames, protocol.String())
	}
	sort.Strings(protocolNames)

	return fmt.Sprintf("%s/%s/%d/%s", keyA, keyB, blockNumber, strings.Join(protocolNames, ","))
}

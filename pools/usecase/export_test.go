package usecase

import "github.com/plunderswap/sor/domain"

var (
	PoolCacheHitsCounter   = poolCacheHitsCounter
	PoolCacheMissesCounter = poolCacheMissesCounter
)

func FormatCandidatePoolsCacheKey(currencyA, currencyB domain.Currency, blockNumber uint64, protocols []domain.PoolType) string {
	return formatCandidatePoolsCacheKey(currencyA, currencyB, blockNumber, protocols)
}

package coingeckopricing

var (
	CacheHitsCounter   = cacheHitsCounter
	CacheMissesCounter = cacheMissesCounter
)

const SourceName = sourceName

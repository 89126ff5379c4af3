package coingeckopricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	deliveryhttp "github.com/plunderswap/sor/delivery/http"
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/cache"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	"github.com/plunderswap/sor/sqsutil/sqshttp"
)

const (
	sourceName = "coingecko"

	defaultCacheSize   = 1024
	defaultRequestTime = 10 * time.Second
)

var (
	cacheHitsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: domain.SORPricingCacheHitsMetricName,
			Help: "Total number of pricing cache hits",
		},
		[]string{"source"},
	)
	cacheMissesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: domain.SORPricingCacheMissesMetricName,
			Help: "Total number of pricing cache misses",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(cacheHitsCounter)
	prometheus.MustRegister(cacheMissesCounter)
}

type coingeckoPricing struct {
	tokensUsecase mvc.TokensUsecase
	cache         *cache.Cache[string, osmomath.Dec]
	httpClient    *http.Client
	quoteCurrency string
	coingeckoUrl  string
	// keyed by checksummed address or "native"
	configuredIDs map[string]string
	logger        log.Logger
}

var _ domain.PriceOracle = &coingeckoPricing{}

// New returns a price oracle backed by the CoinGecko simple price API.
// Coingecko IDs come from config first and then from the token list.
// tokensUsecase may be nil.
func New(config domain.PricingConfig, tokensUsecase mvc.TokensUsecase, logger log.Logger) domain.PriceOracle {
	priceCache := cache.NewNoOp[string, osmomath.Dec]()
	if config.CacheExpiryMs > 0 {
		priceCache = cache.New[string, osmomath.Dec](defaultCacheSize, time.Duration(config.CacheExpiryMs)*time.Millisecond)
	}

	quoteCurrency := config.CoingeckoQuoteCurrency
	if quoteCurrency == "" {
		quoteCurrency = "usd"
	}

	configuredIDs := make(map[string]string, len(config.CoingeckoIds))
	for addressOrAlias, id := range config.CoingeckoIds {
		if domain.IsNativeAlias(addressOrAlias) {
			configuredIDs[nativeIDKey] = id
			continue
		}
		address, ok := domain.ParseAddress(addressOrAlias)
		if !ok {
			logger.Error("skipping invalid coingecko ID address", zap.String("address", addressOrAlias))
			continue
		}
		configuredIDs[address.Hex()] = id
	}

	return &coingeckoPricing{
		tokensUsecase: tokensUsecase,
		cache:         priceCache,
		httpClient:    deliveryhttp.NewClient(defaultRequestTime),
		quoteCurrency: quoteCurrency,
		coingeckoUrl:  config.CoingeckoUrl,
		configuredIDs: configuredIDs,
		logger:        logger,
	}
}

const (
	nativeIDKey = "native"
	// decPrecision is the number of decimals osmomath.Dec carries.
	decPrecision = 18
)

// GetUSDPrice implements domain.PriceOracle.
func (c *coingeckoPricing) GetUSDPrice(ctx context.Context, currency domain.Currency) (osmomath.Dec, error) {
	coingeckoID, ok := c.getCoingeckoID(currency)
	if !ok {
		return osmomath.Dec{}, domain.ErrPriceNotFound
	}

	cacheKey := domain.FormatPricingCacheKey(currency, c.quoteCurrency)
	if price, found := c.cache.Get(cacheKey); found {
		cacheHitsCounter.WithLabelValues(sourceName).Inc()
		return price, nil
	}
	cacheMissesCounter.WithLabelValues(sourceName).Inc()

	price, err := c.GetPriceByCoingeckoId(ctx, coingeckoID)
	if err != nil {
		return osmomath.Dec{}, err
	}

	c.cache.Set(cacheKey, price)

	return price, nil
}

// GetPriceByCoingeckoId fetches the price of a coingecko ID in the configured quote currency.
func (c *coingeckoPricing) GetPriceByCoingeckoId(ctx context.Context, coingeckoID string) (osmomath.Dec, error) {
	query := url.Values{}
	query.Set("ids", coingeckoID)
	query.Set("vs_currencies", c.quoteCurrency)

	data, err := sqshttp.Get[map[string]map[string]float64](ctx, c.httpClient, c.coingeckoUrl+"?"+query.Encode())
	if err != nil {
		return osmomath.Dec{}, fmt.Errorf("failed to get price from Coingecko: %w", err)
	}

	price, ok := (*data)[coingeckoID][c.quoteCurrency]
	if !ok || price <= 0 {
		return osmomath.Dec{}, domain.ErrPriceNotFound
	}

	return osmomath.NewDecFromStr(strconv.FormatFloat(price, 'f', decPrecision, 64))
}

func (c *coingeckoPricing) getCoingeckoID(currency domain.Currency) (string, bool) {
	key := currency.Address.Hex()
	if currency.IsNative {
		key = nativeIDKey
	}
	if id, ok := c.configuredIDs[key]; ok {
		return id, true
	}

	if c.tokensUsecase == nil {
		return "", false
	}
	if id, ok := c.tokensUsecase.GetCoingeckoID(currency); ok {
		return id, true
	}
	// Wrapped native tokens are priced as the native coin and vice versa.
	if currency.IsNative {
		return c.tokensUsecase.GetCoingeckoID(currency.Wrapped())
	}
	if wrapped, ok := domain.WrappedNativeByChain[currency.ChainID]; ok && wrapped.Equals(currency) {
		return c.tokensUsecase.GetCoingeckoID(domain.NativeCurrency(currency.ChainID))
	}
	return "", false
}

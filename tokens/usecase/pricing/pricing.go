package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
	coingeckopricing "github.com/plunderswap/sor/tokens/usecase/pricing/coingecko"
)

// staticPriceOracle serves USD prices from configuration.
type staticPriceOracle struct {
	// keyed by domain.Currency.Key()
	prices map[string]osmomath.Dec
}

var _ domain.PriceOracle = &staticPriceOracle{}

// NewStaticPriceOracle parses static prices keyed by token address or the native alias.
func NewStaticPriceOracle(chainID domain.ChainID, staticPrices map[string]string) (domain.PriceOracle, error) {
	prices := make(map[string]osmomath.Dec, len(staticPrices))
	for addressOrAlias, priceStr := range staticPrices {
		price, err := osmomath.NewDecFromStr(strings.TrimSpace(priceStr))
		if err != nil {
			return nil, fmt.Errorf("invalid static price %q for %s: %w", priceStr, addressOrAlias, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("static price for %s must be positive, got %s", addressOrAlias, price)
		}

		var currency domain.Currency
		if domain.IsNativeAlias(addressOrAlias) {
			currency = domain.NativeCurrency(chainID)
		} else {
			address, ok := domain.ParseAddress(addressOrAlias)
			if !ok {
				return nil, fmt.Errorf("invalid static price address %q", addressOrAlias)
			}
			currency = domain.NewToken(chainID, address, 0, "")
		}

		prices[currency.Key()] = price
	}

	return &staticPriceOracle{prices: prices}, nil
}

// GetUSDPrice implements domain.PriceOracle.
func (s *staticPriceOracle) GetUSDPrice(ctx context.Context, currency domain.Currency) (osmomath.Dec, error) {
	price, ok := s.prices[currency.Key()]
	if !ok {
		return osmomath.Dec{}, domain.ErrPriceNotFound
	}
	return price, nil
}

// fallbackPriceOracle asks each oracle in order until one has a price.
type fallbackPriceOracle struct {
	oracles []domain.PriceOracle
	logger  log.Logger
}

var _ domain.PriceOracle = &fallbackPriceOracle{}

// NewFallbackPriceOracle composes oracles. Earlier oracles take precedence.
func NewFallbackPriceOracle(logger log.Logger, oracles ...domain.PriceOracle) domain.PriceOracle {
	return &fallbackPriceOracle{
		oracles: oracles,
		logger:  logger,
	}
}

// GetUSDPrice implements domain.PriceOracle.
func (f *fallbackPriceOracle) GetUSDPrice(ctx context.Context, currency domain.Currency) (osmomath.Dec, error) {
	for _, oracle := range f.oracles {
		price, err := oracle.GetUSDPrice(ctx, currency)
		if err == nil {
			return price, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return osmomath.Dec{}, ctxErr
		}
		if !errors.Is(err, domain.ErrPriceNotFound) {
			f.logger.Debug("price oracle failed", zap.Stringer("currency", currency), zap.Error(err))
		}
	}
	return osmomath.Dec{}, domain.ErrPriceNotFound
}

// NewPriceOracle builds the oracle described by config.
// Static prices always take precedence. CoinGecko is appended when it is the default source.
func NewPriceOracle(config domain.PricingConfig, chainID domain.ChainID, tokensUsecase mvc.TokensUsecase, logger log.Logger) (domain.PriceOracle, error) {
	staticOracle, err := NewStaticPriceOracle(chainID, config.StaticPrices)
	if err != nil {
		return nil, err
	}

	switch config.DefaultSource {
	case domain.StaticPricingSourceType:
		return staticOracle, nil
	case domain.CoinGeckoPricingSourceType:
		if config.CoingeckoUrl == "" {
			return nil, errors.New("coingecko pricing source requires coingecko-url")
		}
		return NewFallbackPriceOracle(logger, staticOracle, coingeckopricing.New(config, tokensUsecase, logger)), nil
	default:
		return nil, fmt.Errorf("unsupported pricing source type %d", config.DefaultSource)
	}
}

package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/require"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mocks"
	"github.com/plunderswap/sor/log"
	"github.com/plunderswap/sor/router/usecase/routertesting"
	"github.com/plunderswap/sor/tokens/usecase/pricing"
)

var (
	chainID = routertesting.TestChainID
	USDC    = routertesting.USDC
	DAI     = routertesting.DAI
	ETH     = routertesting.ETH
)

func TestNewStaticPriceOracle(t *testing.T) {
	oracle, err := pricing.NewStaticPriceOracle(chainID, map[string]string{
		"native": "2500.5",
		// Lower case addresses resolve to the same token.
		"0x00000000000000000000000000000000000000c1": " 1 ",
	})
	require.NoError(t, err)

	price, err := oracle.GetUSDPrice(context.Background(), ETH)
	require.NoError(t, err)
	require.True(t, osmomath.MustNewDecFromStr("2500.5").Equal(price))

	price, err = oracle.GetUSDPrice(context.Background(), USDC)
	require.NoError(t, err)
	require.True(t, osmomath.OneDec().Equal(price))

	_, err = oracle.GetUSDPrice(context.Background(), DAI)
	require.ErrorIs(t, err, domain.ErrPriceNotFound)

	// Wrapped native is a different currency.
	_, err = oracle.GetUSDPrice(context.Background(), ETH.Wrapped())
	require.ErrorIs(t, err, domain.ErrPriceNotFound)
}

func TestNewStaticPriceOracle_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"not a number":    {"native": "abc"},
		"zero price":      {"native": "0"},
		"negative price":  {"native": "-1"},
		"invalid address": {"usdc": "1"},
	}

	for name, staticPrices := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := pricing.NewStaticPriceOracle(chainID, staticPrices)
			require.Error(t, err)
		})
	}
}

func TestFallbackPriceOracle(t *testing.T) {
	failing := &mocks.PriceOracleMock{
		GetUSDPriceFunc: func(ctx context.Context, currency domain.Currency) (osmomath.Dec, error) {
			return osmomath.Dec{}, errors.New("unavailable")
		},
	}
	first := &mocks.PriceOracleMock{Prices: map[string]osmomath.Dec{
		USDC.Key(): osmomath.OneDec(),
	}}
	second := &mocks.PriceOracleMock{Prices: map[string]osmomath.Dec{
		USDC.Key(): osmomath.NewDec(2),
		ETH.Key():  osmomath.NewDec(2500),
	}}

	oracle := pricing.NewFallbackPriceOracle(&log.NoOpLogger{}, failing, first, second)

	price, err := oracle.GetUSDPrice(context.Background(), USDC)
	require.NoError(t, err)
	require.True(t, osmomath.OneDec().Equal(price))

	price, err = oracle.GetUSDPrice(context.Background(), ETH)
	require.NoError(t, err)
	require.True(t, osmomath.NewDec(2500).Equal(price))

	_, err = oracle.GetUSDPrice(context.Background(), DAI)
	require.ErrorIs(t, err, domain.ErrPriceNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = oracle.GetUSDPrice(ctx, DAI)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewPriceOracle(t *testing.T) {
	config := domain.PricingConfig{
		DefaultSource: domain.StaticPricingSourceType,
		StaticPrices:  map[string]string{"native": "10"},
	}

	oracle, err := pricing.NewPriceOracle(config, chainID, &mocks.TokensUsecaseMock{}, &log.NoOpLogger{})
	require.NoError(t, err)
	price, err := oracle.GetUSDPrice(context.Background(), ETH)
	require.NoError(t, err)
	require.True(t, osmomath.NewDec(10).Equal(price))

	config.DefaultSource = domain.CoinGeckoPricingSourceType
	_, err = pricing.NewPriceOracle(config, chainID, &mocks.TokensUsecaseMock{}, &log.NoOpLogger{})
	require.Error(t, err)

	config.CoingeckoUrl = "http://localhost:0"
	oracle, err = pricing.NewPriceOracle(config, chainID, &mocks.TokensUsecaseMock{}, &log.NoOpLogger{})
	require.NoError(t, err)
	// Static prices are served without reaching CoinGecko.
	price, err = oracle.GetUSDPrice(context.Background(), ETH)
	require.NoError(t, err)
	require.True(t, osmomath.NewDec(10).Equal(price))

	config.DefaultSource = domain.NoneSourceType
	_, err = pricing.NewPriceOracle(config, chainID, &mocks.TokensUsecaseMock{}, &log.NoOpLogger{})
	require.Error(t, err)
}

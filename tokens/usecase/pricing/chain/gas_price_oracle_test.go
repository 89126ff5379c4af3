package chainpricing_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/log"
	chainpricing "github.com/plunderswap/sor/tokens/usecase/pricing/chain"
)

type gasPricerFunc func(ctx context.Context) (*big.Int, error)

func (f gasPricerFunc) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f(ctx)
}

func TestGasPriceOracle(t *testing.T) {
	oracle := chainpricing.NewGasPriceOracle(gasPricerFunc(func(ctx context.Context) (*big.Int, error) {
		return big.NewInt(3_000_000_000), nil
	}), time.Hour, &log.NoOpLogger{})
	defer oracle.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, oracle.WaitUntilFirstResult(ctx))

	gasPrice, err := oracle.GetGasPrice(context.Background())
	require.NoError(t, err)
	require.Equal(t, "3000000000", gasPrice.String())

	gasPrice, err = oracle.GasPriceFunc()(context.Background())
	require.NoError(t, err)
	require.Equal(t, "3000000000", gasPrice.String())

	// Older than five refetch intervals.
	oracle.SetNow(func() time.Time { return time.Now().Add(6 * time.Hour) })
	_, err = oracle.GetGasPrice(context.Background())
	require.ErrorAs(t, err, &domain.StaleGasPriceError{})
}

func TestGasPriceOracle_Unavailable(t *testing.T) {
	tests := []struct {
		name     string
		gasPrice *big.Int
		err      error
	}{
		{name: "rpc error", err: errors.New("connection refused")},
		{name: "zero gas price", gasPrice: big.NewInt(0)},
		{name: "nil gas price"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fetched := make(chan struct{}, 1)
			oracle := chainpricing.NewGasPriceOracle(gasPricerFunc(func(ctx context.Context) (*big.Int, error) {
				select {
				case fetched <- struct{}{}:
				default:
				}
				return tc.gasPrice, tc.err
			}), time.Hour, &log.NoOpLogger{})
			defer oracle.Close()

			<-fetched
			// The failed fetch never produces a value.
			require.Eventually(t, func() bool {
				_, err := oracle.GetGasPrice(context.Background())
				return err != nil
			}, time.Second, 10*time.Millisecond)
		})
	}
}

package chainpricing

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/log"
	"github.com/plunderswap/sor/sqsutil/datafetchers"
)

// maxAgeIntervals is the number of refetch intervals after which a gas price is stale.
const maxAgeIntervals = 5

// GasPriceOracle serves the chain gas price, refetched in the background.
type GasPriceOracle struct {
	fetcher *datafetchers.IntervalFetcher[*big.Int]
	maxAge  time.Duration
	now     func() time.Time
}

// NewGasPriceOracle starts polling gasPricer every interval.
func NewGasPriceOracle(gasPricer ethereum.GasPricer, interval time.Duration, logger log.Logger) *GasPriceOracle {
	updateFn := func() (*big.Int, error) {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		gasPrice, err := gasPricer.SuggestGasPrice(ctx)
		if err != nil {
			logger.Error("failed to fetch gas price", zap.Error(err))
			return nil, err
		}
		if gasPrice == nil || gasPrice.Sign() <= 0 {
			logger.Error("invalid gas price", zap.Stringer("gas_price", gasPrice))
			return nil, errors.New("invalid gas price")
		}
		return gasPrice, nil
	}

	return &GasPriceOracle{
		fetcher: datafetchers.NewIntervalFetcher(updateFn, interval),
		maxAge:  interval * maxAgeIntervals,
		now:     time.Now,
	}
}

// GetGasPrice returns the latest gas price in wei.
// Errors if none was fetched yet or if it is stale.
func (o *GasPriceOracle) GetGasPrice(ctx context.Context) (osmomath.Int, error) {
	gasPrice, fetchedAt, err := o.fetcher.Get()
	if err != nil {
		return osmomath.Int{}, err
	}

	if age := o.now().Sub(fetchedAt); age > o.maxAge {
		return osmomath.Int{}, domain.StaleGasPriceError{Age: age, MaxAge: o.maxAge}
	}

	return osmomath.NewIntFromBigInt(gasPrice), nil
}

// GasPriceFunc returns GetGasPrice as a router gas price resolver.
func (o *GasPriceOracle) GasPriceFunc() domain.GasPriceFunc {
	return o.GetGasPrice
}

// Close stops polling.
func (o *GasPriceOracle) Close() {
	o.fetcher.Close()
}

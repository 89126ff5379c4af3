package chainpricing

import (
	"context"
	"time"
)

func (o *GasPriceOracle) SetNow(now func() time.Time) {
	o.now = now
}

func (o *GasPriceOracle) WaitUntilFirstResult(ctx context.Context) error {
	return o.fetcher.WaitUntilFirstResult(ctx)
}

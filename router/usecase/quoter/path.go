package quoter

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/plunderswap/sor/domain"
)

const feeSize = 3

// encodeV3Path packs tokens and fee tiers as token (20 bytes) | fee (3 bytes) | token ...
// Exact output paths are encoded from the output token backwards.
func encodeV3Path(route domain.Route, tradeType domain.TradeType) ([]byte, error) {
	pools := route.GetPools()
	path := route.GetPath()

	tokens := make([]common.Address, 0, len(path))
	for _, currency := range path {
		tokens = append(tokens, currency.Wrapped().Address)
	}

	fees := make([]uint32, 0, len(pools))
	for _, pool := range pools {
		feePool, ok := pool.(domain.FeeTierPool)
		if !ok {
			return nil, domain.UnsupportedRouteError{RouteID: route.ID(), Reason: "pool " + pool.GetID() + " has no fee tier"}
		}
		fees = append(fees, feePool.GetFee())
	}

	if tradeType == domain.TradeTypeExactOutput {
		reverse(tokens)
		reverse(fees)
	}

	encoded := make([]byte, 0, len(tokens)*common.AddressLength+len(fees)*feeSize)
	for i, token := range tokens {
		encoded = append(encoded, token.Bytes()...)
		if i < len(fees) {
			fee := fees[i]
			encoded = append(encoded, byte(fee>>16), byte(fee>>8), byte(fee))
		}
	}
	return encoded, nil
}

// addressPath returns the wrapped token addresses of the route in swap order.
func addressPath(route domain.Route) []common.Address {
	path := route.GetPath()
	addresses := make([]common.Address, 0, len(path))
	for _, currency := range path {
		addresses = append(addresses, currency.Wrapped().Address)
	}
	return addresses
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

package quoter

import "github.com/plunderswap/sor/domain"

func EncodeV3Path(route domain.Route, tradeType domain.TradeType) ([]byte, error) {
	return encodeV3Path(route, tradeType)
}

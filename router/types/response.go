package types

import (
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// CurrencyResponse is the JSON form of a currency.
type CurrencyResponse struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals uint8  `json:"decimals"`
	IsNative bool   `json:"isNative,omitempty"`
}

// PoolResponse is the JSON form of a pool in a route.
type PoolResponse struct {
	Address     string           `json:"address"`
	Type        domain.PoolType  `json:"type"`
	Fee         uint32           `json:"fee,omitempty"`
	Token0      CurrencyResponse `json:"token0"`
	Token1      CurrencyResponse `json:"token1"`
	BlockNumber uint64           `json:"blockNumber"`
}

// RouteResponse is the JSON form of a route.
type RouteResponse struct {
	ID    string             `json:"id"`
	Type  domain.RouteType   `json:"type"`
	Path  []CurrencyResponse `json:"path"`
	Pools []PoolResponse     `json:"pools"`
}

// SplitRouteResponse is a route selected for a trade with its share of the amounts.
type SplitRouteResponse struct {
	RouteResponse
	Percent      uint8        `json:"percent"`
	InputAmount  osmomath.Int `json:"inputAmount"`
	OutputAmount osmomath.Int `json:"outputAmount"`
	GasEstimate  osmomath.Int `json:"gasEstimate"`
}

// QuoteResponse is the response of the /router/quote endpoint.
type QuoteResponse struct {
	TradeType        domain.TradeType     `json:"tradeType"`
	TokenIn          CurrencyResponse     `json:"tokenIn"`
	TokenOut         CurrencyResponse     `json:"tokenOut"`
	AmountIn         osmomath.Int         `json:"amountIn"`
	AmountOut        osmomath.Int         `json:"amountOut"`
	GasEstimate      osmomath.Int         `json:"gasEstimate"`
	GasEstimateInUSD *osmomath.Dec        `json:"gasEstimateInUSD,omitempty"`
	BlockNumber      uint64               `json:"blockNumber"`
	Routes           []SplitRouteResponse `json:"routes"`
}

// NewCurrencyResponse formats a currency.
// The native coin is reported under the "native" alias.
func NewCurrencyResponse(currency domain.Currency) CurrencyResponse {
	address := currency.Address.Hex()
	if currency.IsNative {
		address = "native"
	}
	return CurrencyResponse{
		Address:  address,
		Symbol:   currency.Symbol,
		Decimals: currency.Decimals,
		IsNative: currency.IsNative,
	}
}

// NewPoolResponse formats a pool.
func NewPoolResponse(pool domain.Pool) PoolResponse {
	poolResponse := PoolResponse{
		Address:     pool.GetAddress().Hex(),
		Type:        pool.GetType(),
		Token0:      NewCurrencyResponse(pool.GetCurrency0()),
		Token1:      NewCurrencyResponse(pool.GetCurrency1()),
		BlockNumber: pool.GetBlockNumber(),
	}
	if feeTierPool, ok := pool.(domain.FeeTierPool); ok {
		poolResponse.Fee = feeTierPool.GetFee()
	}
	return poolResponse
}

// NewRouteResponse formats a route.
func NewRouteResponse(route domain.Route) RouteResponse {
	path := route.GetPath()
	pools := route.GetPools()

	result := RouteResponse{
		ID:    route.ID(),
		Type:  route.GetType(),
		Path:  make([]CurrencyResponse, 0, len(path)),
		Pools: make([]PoolResponse, 0, len(pools)),
	}

	for _, currency := range path {
		result.Path = append(result.Path, NewCurrencyResponse(currency))
	}

	for _, pool := range pools {
		result.Pools = append(result.Pools, NewPoolResponse(pool))
	}

	return result
}

// NewQuoteResponse formats a trade.
func NewQuoteResponse(trade *domain.SmartRouterTrade) QuoteResponse {
	result := QuoteResponse{
		TradeType:   trade.TradeType,
		TokenIn:     NewCurrencyResponse(trade.InputAmount.Currency),
		TokenOut:    NewCurrencyResponse(trade.OutputAmount.Currency),
		AmountIn:    trade.InputAmount.Amount,
		AmountOut:   trade.OutputAmount.Amount,
		GasEstimate: trade.GasEstimate,
		BlockNumber: trade.BlockNumber,
		Routes:      make([]SplitRouteResponse, 0, len(trade.Routes)),
	}

	if !trade.GasEstimateInUSD.IsNil() {
		gasEstimateInUSD := trade.GasEstimateInUSD
		result.GasEstimateInUSD = &gasEstimateInUSD
	}

	for _, route := range trade.Routes {
		result.Routes = append(result.Routes, SplitRouteResponse{
			RouteResponse: NewRouteResponse(route.Route),
			Percent:       route.Percent,
			InputAmount:   route.InputAmount.Amount,
			OutputAmount:  route.OutputAmount.Amount,
			GasEstimate:   route.GasEstimate,
		})
	}

	return result
}

// NewRoutesResponse formats candidate routes.
func NewRoutesResponse(routes []domain.Route) []RouteResponse {
	result := make([]RouteResponse, 0, len(routes))
	for _, route := range routes {
		result = append(result, NewRouteResponse(route))
	}
	return result
}

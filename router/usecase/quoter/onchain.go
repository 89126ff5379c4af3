package quoter

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/plunderswap/sor/domain"
)

// QuoterV2ABI is the subset of the concentrated liquidity QuoterV2 contract used for quoting.
const QuoterV2ABI = `[
	{
		"inputs": [
			{"internalType": "bytes", "name": "path", "type": "bytes"},
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"}
		],
		"name": "quoteExactInput",
		"outputs": [
			{"internalType": "uint256", "name": "amountOut", "type": "uint256"},
			{"internalType": "uint160[]", "name": "sqrtPriceX96AfterList", "type": "uint160[]"},
			{"internalType": "uint32[]", "name": "initializedTicksCrossedList", "type": "uint32[]"},
			{"internalType": "uint256", "name": "gasEstimate", "type": "uint256"}
		],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes", "name": "path", "type": "bytes"},
			{"internalType": "uint256", "name": "amountOut", "type": "uint256"}
		],
		"name": "quoteExactOutput",
		"outputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "uint160[]", "name": "sqrtPriceX96AfterList", "type": "uint160[]"},
			{"internalType": "uint32[]", "name": "initializedTicksCrossedList", "type": "uint32[]"},
			{"internalType": "uint256", "name": "gasEstimate", "type": "uint256"}
		],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// V2RouterABI is the subset of the constant product router used for quoting.
const V2RouterABI = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountOut", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsIn",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "factory",
		"outputs": [
			{"internalType": "address", "name": "", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// V2FactoryABI is the subset of the constant product factory used to resolve pairs.
const V2FactoryABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "tokenA", "type": "address"},
			{"internalType": "address", "name": "tokenB", "type": "address"}
		],
		"name": "getPair",
		"outputs": [
			{"internalType": "address", "name": "pair", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

const (
	methodQuoteExactInput  = "quoteExactInput"
	methodQuoteExactOutput = "quoteExactOutput"
	methodGetAmountsOut    = "getAmountsOut"
	methodGetAmountsIn     = "getAmountsIn"
	methodFactory          = "factory"
	methodGetPair          = "getPair"
)

type onChainQuoteProvider struct {
	caller   bind.ContractCaller
	quoterV2 *bind.BoundContract
	v2Router *bind.BoundContract

	factoryABI abi.ABI
	// v2Factory is resolved from the v2 router on the first v2 quote.
	factoryMu sync.Mutex
	v2Factory *bind.BoundContract
	// pairs maps a sorted token pair to the factory pair address. Pairs never move once created.
	pairs sync.Map
}

var _ domain.QuoteProvider = &onChainQuoteProvider{}

// NewOnChainQuoteProvider returns a quote provider calling the quoter contracts at the pinned block.
// V3 routes are quoted by QuoterV2 and V2 routes by the V2 router. A zero address disables
// the corresponding contract. Other routes return UnsupportedRouteError.
// The V2 router quotes the pairs of its factory, so V2 routes through any other pool
// return UnsupportedRouteError as well.
func NewOnChainQuoteProvider(caller bind.ContractCaller, quoterV2Address, v2RouterAddress common.Address) (domain.QuoteProvider, error) {
	provider := &onChainQuoteProvider{caller: caller}

	if quoterV2Address != (common.Address{}) {
		quoterABI, err := abi.JSON(strings.NewReader(QuoterV2ABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
		}
		provider.quoterV2 = bind.NewBoundContract(quoterV2Address, quoterABI, caller, nil, nil)
	}

	if v2RouterAddress != (common.Address{}) {
		routerABI, err := abi.JSON(strings.NewReader(V2RouterABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse v2 router ABI: %w", err)
		}
		provider.v2Router = bind.NewBoundContract(v2RouterAddress, routerABI, caller, nil, nil)

		provider.factoryABI, err = abi.JSON(strings.NewReader(V2FactoryABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse v2 factory ABI: %w", err)
		}
	}

	return provider, nil
}

// GetRouteQuote implements domain.QuoteProvider.
func (p *onChainQuoteProvider) GetRouteQuote(ctx context.Context, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType, blockNumber uint64) (domain.RouteQuote, error) {
	callOpts := &bind.CallOpts{Context: ctx}
	if blockNumber > 0 {
		callOpts.BlockNumber = new(big.Int).SetUint64(blockNumber)
	}

	switch route.GetType() {
	case domain.RouteTypeV3:
		if p.quoterV2 == nil {
			return domain.RouteQuote{}, domain.UnsupportedRouteError{RouteID: route.ID(), Reason: "quoter v2 is not configured"}
		}
		return p.quoteV3(callOpts, route, amount, tradeType)
	case domain.RouteTypeV2:
		if p.v2Router == nil {
			return domain.RouteQuote{}, domain.UnsupportedRouteError{RouteID: route.ID(), Reason: "v2 router is not configured"}
		}
		return p.quoteV2(callOpts, route, amount, tradeType)
	default:
		return domain.RouteQuote{}, domain.UnsupportedRouteError{RouteID: route.ID(), Reason: "no on-chain quoter for " + route.GetType().String() + " routes"}
	}
}

func (p *onChainQuoteProvider) quoteV3(callOpts *bind.CallOpts, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType) (domain.RouteQuote, error) {
	path, err := encodeV3Path(route, tradeType)
	if err != nil {
		return domain.RouteQuote{}, err
	}

	method := methodQuoteExactInput
	counter := route.GetOutput()
	if tradeType == domain.TradeTypeExactOutput {
		method = methodQuoteExactOutput
		counter = route.GetInput()
	}

	var out []interface{}
	if err := p.quoterV2.Call(callOpts, &out, method, path, amount.Amount.BigInt()); err != nil {
		return domain.RouteQuote{}, fmt.Errorf("quoter v2 %s failed: %w", method, err)
	}
	if len(out) != 4 {
		return domain.RouteQuote{}, fmt.Errorf("quoter v2 %s returned (%d) values, expected 4", method, len(out))
	}

	quoted, ok := out[0].(*big.Int)
	if !ok {
		return domain.RouteQuote{}, fmt.Errorf("quoter v2 %s returned unexpected amount type %T", method, out[0])
	}
	ticks, ok := out[2].([]uint32)
	if !ok {
		return domain.RouteQuote{}, fmt.Errorf("quoter v2 %s returned unexpected ticks type %T", method, out[2])
	}

	// The quoter reports ticks in path order, which is reversed for exact output.
	ticksCrossed := make([]uint32, len(ticks))
	copy(ticksCrossed, ticks)
	if tradeType == domain.TradeTypeExactOutput {
		reverse(ticksCrossed)
	}

	return domain.RouteQuote{
		Amount:                  domain.NewCurrencyAmountFromBigInt(counter, quoted),
		InitializedTicksCrossed: ticksCrossed,
	}, nil
}

func (p *onChainQuoteProvider) quoteV2(callOpts *bind.CallOpts, route domain.Route, amount domain.CurrencyAmount, tradeType domain.TradeType) (domain.RouteQuote, error) {
	for _, pool := range route.GetPools() {
		pair, err := p.getV2Pair(callOpts, pool.GetCurrency0().Wrapped().Address, pool.GetCurrency1().Wrapped().Address)
		if err != nil {
			return domain.RouteQuote{}, err
		}
		if pair != pool.GetAddress() {
			return domain.RouteQuote{}, domain.UnsupportedRouteError{
				RouteID: route.ID(),
				Reason:  fmt.Sprintf("pool %s is not the v2 router pair %s", pool.GetAddress().Hex(), pair.Hex()),
			}
		}
	}

	path := addressPath(route)

	method := methodGetAmountsOut
	counter := route.GetOutput()
	if tradeType == domain.TradeTypeExactOutput {
		method = methodGetAmountsIn
		counter = route.GetInput()
	}

	var out []interface{}
	if err := p.v2Router.Call(callOpts, &out, method, amount.Amount.BigInt(), path); err != nil {
		return domain.RouteQuote{}, fmt.Errorf("v2 router %s failed: %w", method, err)
	}
	if len(out) != 1 {
		return domain.RouteQuote{}, fmt.Errorf("v2 router %s returned (%d) values, expected 1", method, len(out))
	}

	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		return domain.RouteQuote{}, fmt.Errorf("v2 router %s returned unexpected amounts %v", method, out[0])
	}

	// getAmountsOut ends with the output, getAmountsIn starts with the input.
	quoted := amounts[len(amounts)-1]
	if tradeType == domain.TradeTypeExactOutput {
		quoted = amounts[0]
	}

	return domain.RouteQuote{
		Amount:                  domain.NewCurrencyAmountFromBigInt(counter, quoted),
		InitializedTicksCrossed: make([]uint32, route.HopCount()),
	}, nil
}

// getV2Pair returns the factory pair of two tokens, or the zero address when there is none.
func (p *onChainQuoteProvider) getV2Pair(callOpts *bind.CallOpts, tokenA, tokenB common.Address) (common.Address, error) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		tokenA, tokenB = tokenB, tokenA
	}
	key := [2]common.Address{tokenA, tokenB}
	if pair, ok := p.pairs.Load(key); ok {
		return pair.(common.Address), nil
	}

	factory, err := p.getV2Factory(callOpts)
	if err != nil {
		return common.Address{}, err
	}

	var out []interface{}
	if err := factory.Call(callOpts, &out, methodGetPair, tokenA, tokenB); err != nil {
		return common.Address{}, fmt.Errorf("v2 factory %s failed: %w", methodGetPair, err)
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("v2 factory %s returned (%d) values, expected 1", methodGetPair, len(out))
	}
	pair, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("v2 factory %s returned unexpected pair type %T", methodGetPair, out[0])
	}

	// A missing pair may still be created later.
	if pair != (common.Address{}) {
		p.pairs.Store(key, pair)
	}
	return pair, nil
}

func (p *onChainQuoteProvider) getV2Factory(callOpts *bind.CallOpts) (*bind.BoundContract, error) {
	p.factoryMu.Lock()
	defer p.factoryMu.Unlock()

	if p.v2Factory != nil {
		return p.v2Factory, nil
	}

	var out []interface{}
	if err := p.v2Router.Call(callOpts, &out, methodFactory); err != nil {
		return nil, fmt.Errorf("v2 router %s failed: %w", methodFactory, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("v2 router %s returned (%d) values, expected 1", methodFactory, len(out))
	}
	factoryAddress, ok := out[0].(common.Address)
	if !ok || factoryAddress == (common.Address{}) {
		return nil, fmt.Errorf("v2 router %s returned unexpected factory %v", methodFactory, out[0])
	}

	p.v2Factory = bind.NewBoundContract(factoryAddress, p.factoryABI, p.caller, nil, nil)
	return p.v2Factory, nil
}

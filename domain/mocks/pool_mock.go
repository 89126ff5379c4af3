package mocks

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// MockPool is a mock implementation of domain.Pool.
// Swap funcs panic when unset. SpotPrice and GetLiquidity serve the static fields.
type MockPool struct {
	Address     common.Address
	PoolType    domain.PoolType
	Currency0   domain.Currency
	Currency1   domain.Currency
	BlockNumber uint64
	Fee         uint32

	// SpotPrice0 is the price of one raw unit of Currency0 in raw units of Currency1.
	SpotPrice0 osmomath.BigDec
	Liquidity0 osmomath.Int
	Liquidity1 osmomath.Int

	CalculateTokenOutByTokenInFunc func(tokenIn domain.CurrencyAmount) (domain.SwapResult, error)
	CalculateTokenInByTokenOutFunc func(tokenOut domain.CurrencyAmount) (domain.SwapResult, error)
}

var _ domain.FeeTierPool = &MockPool{}

// GetAddress implements domain.Pool.
func (mp *MockPool) GetAddress() common.Address {
	return mp.Address
}

// GetID implements domain.Pool.
func (mp *MockPool) GetID() string {
	return strings.ToLower(mp.Address.Hex())
}

// GetType implements domain.Pool.
func (mp *MockPool) GetType() domain.PoolType {
	return mp.PoolType
}

// GetCurrency0 implements domain.Pool.
func (mp *MockPool) GetCurrency0() domain.Currency {
	return mp.Currency0
}

// GetCurrency1 implements domain.Pool.
func (mp *MockPool) GetCurrency1() domain.Currency {
	return mp.Currency1
}

// GetBlockNumber implements domain.Pool.
func (mp *MockPool) GetBlockNumber() uint64 {
	return mp.BlockNumber
}

// GetFee implements domain.FeeTierPool.
func (mp *MockPool) GetFee() uint32 {
	return mp.Fee
}

// Involves implements domain.Pool.
func (mp *MockPool) Involves(currency domain.Currency) bool {
	wrapped := currency.Wrapped()
	return mp.Currency0.Equals(wrapped) || mp.Currency1.Equals(wrapped)
}

// Other implements domain.Pool.
func (mp *MockPool) Other(currency domain.Currency) domain.Currency {
	if mp.Currency0.Equals(currency.Wrapped()) {
		return mp.Currency1
	}
	return mp.Currency0
}

// CalculateTokenOutByTokenIn implements domain.Pool.
func (mp *MockPool) CalculateTokenOutByTokenIn(tokenIn domain.CurrencyAmount) (domain.SwapResult, error) {
	if mp.CalculateTokenOutByTokenInFunc != nil {
		return mp.CalculateTokenOutByTokenInFunc(tokenIn)
	}
	panic("unimplemented")
}

// CalculateTokenInByTokenOut implements domain.Pool.
func (mp *MockPool) CalculateTokenInByTokenOut(tokenOut domain.CurrencyAmount) (domain.SwapResult, error) {
	if mp.CalculateTokenInByTokenOutFunc != nil {
		return mp.CalculateTokenInByTokenOutFunc(tokenOut)
	}
	panic("unimplemented")
}

// SpotPrice implements domain.Pool.
func (mp *MockPool) SpotPrice(base domain.Currency) (osmomath.BigDec, error) {
	if mp.SpotPrice0.IsNil() || mp.SpotPrice0.IsZero() {
		return osmomath.BigDec{}, domain.ConcentratedNoLiquidityError{PoolID: mp.GetID()}
	}
	if mp.Currency0.Equals(base.Wrapped()) {
		return mp.SpotPrice0, nil
	}
	return osmomath.OneBigDec().Quo(mp.SpotPrice0), nil
}

// GetLiquidity implements domain.Pool.
func (mp *MockPool) GetLiquidity(currency domain.Currency) osmomath.Int {
	liquidity := mp.Liquidity1
	if mp.Currency0.Equals(currency.Wrapped()) {
		liquidity = mp.Liquidity0
	}
	if liquidity.IsNil() {
		return osmomath.ZeroInt()
	}
	return liquidity
}

// String implements domain.Pool.
func (mp *MockPool) String() string {
	return mp.PoolType.String() + " " + mp.GetID()
}

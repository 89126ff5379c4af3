package domain

import (
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
)

// ChainID identifies an EVM chain.
type ChainID uint64

// Currency is either a token at an address or the chain's native coin.
// Currencies are value types and compared with Equals, never by symbol.
type Currency struct {
	ChainID  ChainID        `json:"chainId"`
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol"`
	IsNative bool           `json:"isNative"`
}

// NewToken returns an ERC20 token currency.
func NewToken(chainID ChainID, address common.Address, decimals uint8, symbol string) Currency {
	return Currency{
		ChainID:  chainID,
		Address:  address,
		Decimals: decimals,
		Symbol:   symbol,
	}
}

// NewNativeCurrency returns the native coin of the given chain.
func NewNativeCurrency(chainID ChainID, decimals uint8, symbol string) Currency {
	return Currency{
		ChainID:  chainID,
		Decimals: decimals,
		Symbol:   symbol,
		IsNative: true,
	}
}

// Equals returns true if both currencies refer to the same asset on the same chain.
func (c Currency) Equals(other Currency) bool {
	if c.ChainID != other.ChainID || c.IsNative != other.IsNative {
		return false
	}
	if c.IsNative {
		return true
	}
	return c.Address == other.Address
}

// Wrapped returns the token pools hold for this currency.
// Tokens map to themselves. Native coins map to the chain's wrapped token
// if one is registered, otherwise the native currency is returned unchanged.
func (c Currency) Wrapped() Currency {
	if !c.IsNative {
		return c
	}
	wrapped, ok := WrappedNativeByChain[c.ChainID]
	if !ok {
		return c
	}
	return wrapped
}

// SortsBefore orders tokens by address the way pool contracts order token0 and token1.
func (c Currency) SortsBefore(other Currency) bool {
	return strings.ToLower(c.Address.Hex()) < strings.ToLower(other.Address.Hex())
}

// Key is a stable map key for the currency.
func (c Currency) Key() string {
	if c.IsNative {
		return fmt.Sprintf("%d:native", c.ChainID)
	}
	return fmt.Sprintf("%d:%s", c.ChainID, c.Address.Hex())
}

func (c Currency) String() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.Key()
}

// CurrencyAmount is an amount of a currency in raw (smallest unit) terms.
// Arithmetic returns new values and never mutates the receiver.
type CurrencyAmount struct {
	Currency Currency     `json:"currency"`
	Amount   osmomath.Int `json:"amount"`
}

// NewCurrencyAmount creates a currency amount from a raw integer amount.
func NewCurrencyAmount(currency Currency, amount osmomath.Int) CurrencyAmount {
	if amount.IsNil() {
		amount = osmomath.ZeroInt()
	}
	return CurrencyAmount{Currency: currency, Amount: amount}
}

// NewCurrencyAmountFromBigInt creates a currency amount from a big integer.
func NewCurrencyAmountFromBigInt(currency Currency, amount *big.Int) CurrencyAmount {
	if amount == nil {
		return ZeroCurrencyAmount(currency)
	}
	return CurrencyAmount{Currency: currency, Amount: math.NewIntFromBigInt(amount)}
}

// ZeroCurrencyAmount returns a zero amount of the currency.
func ZeroCurrencyAmount(currency Currency) CurrencyAmount {
	return CurrencyAmount{Currency: currency, Amount: osmomath.ZeroInt()}
}

// IsZero returns true if the amount is nil or zero.
func (a CurrencyAmount) IsZero() bool {
	return a.Amount.IsNil() || a.Amount.IsZero()
}

// IsPositive returns true if the amount is strictly positive.
func (a CurrencyAmount) IsPositive() bool {
	return !a.Amount.IsNil() && a.Amount.IsPositive()
}

// Add returns a + other. Both amounts must be in the same currency.
func (a CurrencyAmount) Add(other CurrencyAmount) CurrencyAmount {
	return CurrencyAmount{Currency: a.Currency, Amount: a.Amount.Add(other.Amount)}
}

// Sub returns a - other. The result may be negative.
func (a CurrencyAmount) Sub(other CurrencyAmount) CurrencyAmount {
	return CurrencyAmount{Currency: a.Currency, Amount: a.Amount.Sub(other.Amount)}
}

// MulPercent returns floor(a * percent / 100).
func (a CurrencyAmount) MulPercent(percent uint8) CurrencyAmount {
	return CurrencyAmount{
		Currency: a.Currency,
		Amount:   a.Amount.MulRaw(int64(percent)).QuoRaw(100),
	}
}

// GT returns true if a > other.
func (a CurrencyAmount) GT(other CurrencyAmount) bool {
	return a.Amount.GT(other.Amount)
}

// LT returns true if a < other.
func (a CurrencyAmount) LT(other CurrencyAmount) bool {
	return a.Amount.LT(other.Amount)
}

// ToDecimal returns the human readable value scaled down by the currency decimals.
func (a CurrencyAmount) ToDecimal() osmomath.Dec {
	return a.Amount.ToLegacyDec().Quo(DecimalsMultiplier(a.Currency.Decimals))
}

func (a CurrencyAmount) String() string {
	return fmt.Sprintf("%s%s", a.Amount, a.Currency)
}

// DecimalsMultiplier returns 10^decimals.
func DecimalsMultiplier(decimals uint8) osmomath.Dec {
	return osmomath.NewDecFromInt(osmomath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)))
}

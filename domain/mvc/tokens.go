package mvc

import (
	"github.com/plunderswap/sor/domain"
)

// TokensUsecase resolves request currencies.
type TokensUsecase interface {
	// GetCurrency returns the currency registered at address, with the symbol (case insensitive)
	// or the native coin for "native".
	GetCurrency(chainID domain.ChainID, addressOrAlias string) (domain.Currency, error)
	// GetAllCurrencies returns every registered currency sorted by key.
	GetAllCurrencies() []domain.Currency
	// GetCoingeckoID returns the coingecko ID of currency, if known.
	GetCoingeckoID(currency domain.Currency) (string, bool)

	// LoadTokens registers token list entries, replacing existing entries.
	LoadTokens(tokens []domain.Token)
	// RegisterCurrencies registers currencies that are not registered yet.
	RegisterCurrencies(currencies []domain.Currency)
}

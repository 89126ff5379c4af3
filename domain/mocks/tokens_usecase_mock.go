package mocks

import (
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
)

// TokensUsecaseMock is a mock implementation of mvc.TokensUsecase.
type TokensUsecaseMock struct {
	GetCurrencyFunc        func(chainID domain.ChainID, addressOrAlias string) (domain.Currency, error)
	GetAllCurrenciesFunc   func() []domain.Currency
	GetCoingeckoIDFunc     func(currency domain.Currency) (string, bool)
	LoadTokensFunc         func(tokens []domain.Token)
	RegisterCurrenciesFunc func(currencies []domain.Currency)
}

var _ mvc.TokensUsecase = &TokensUsecaseMock{}

// GetCurrency implements mvc.TokensUsecase.
func (m *TokensUsecaseMock) GetCurrency(chainID domain.ChainID, addressOrAlias string) (domain.Currency, error) {
	if m.GetCurrencyFunc != nil {
		return m.GetCurrencyFunc(chainID, addressOrAlias)
	}
	panic("unimplemented")
}

// GetAllCurrencies implements mvc.TokensUsecase.
func (m *TokensUsecaseMock) GetAllCurrencies() []domain.Currency {
	if m.GetAllCurrenciesFunc != nil {
		return m.GetAllCurrenciesFunc()
	}
	panic("unimplemented")
}

// GetCoingeckoID implements mvc.TokensUsecase.
func (m *TokensUsecaseMock) GetCoingeckoID(currency domain.Currency) (string, bool) {
	if m.GetCoingeckoIDFunc != nil {
		return m.GetCoingeckoIDFunc(currency)
	}
	panic("unimplemented")
}

// LoadTokens implements mvc.TokensUsecase.
func (m *TokensUsecaseMock) LoadTokens(tokens []domain.Token) {
	if m.LoadTokensFunc != nil {
		m.LoadTokensFunc(tokens)
		return
	}
	panic("unimplemented")
}

// RegisterCurrencies implements mvc.TokensUsecase.
func (m *TokensUsecaseMock) RegisterCurrencies(currencies []domain.Currency) {
	if m.RegisterCurrenciesFunc != nil {
		m.RegisterCurrenciesFunc(currencies)
		return
	}
	panic("unimplemented")
}

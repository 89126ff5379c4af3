package usecase

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/mvc"
	"github.com/plunderswap/sor/log"
)

type tokensUseCase struct {
	mu sync.RWMutex
	// keyed by domain.Currency.Key()
	currencies   map[string]domain.Currency
	coingeckoIDs map[string]string
	// keyed by chain and lower case symbol
	symbolToKey map[string]string

	logger log.Logger
}

var _ mvc.TokensUsecase = &tokensUseCase{}

// NewTokensUsecase will create a new tokens use case object.
// The native coins of the known chains and their wrapped tokens are always registered.
func NewTokensUsecase(logger log.Logger) mvc.TokensUsecase {
	t := &tokensUseCase{
		currencies:   make(map[string]domain.Currency),
		coingeckoIDs: make(map[string]string),
		symbolToKey:  make(map[string]string),
		logger:       logger,
	}

	for _, native := range domain.NativeCurrencyByChain {
		t.register(native, false)
	}
	for _, wrapped := range domain.WrappedNativeByChain {
		t.register(wrapped, false)
	}

	return t
}

// GetCurrency implements mvc.TokensUsecase.
func (t *tokensUseCase) GetCurrency(chainID domain.ChainID, addressOrAlias string) (domain.Currency, error) {
	addressOrAlias = strings.TrimSpace(addressOrAlias)

	if domain.IsNativeAlias(addressOrAlias) {
		return domain.NativeCurrency(chainID), nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if address, ok := domain.ParseAddress(addressOrAlias); ok {
		if currency, ok := t.currencies[domain.NewToken(chainID, address, 0, "").Key()]; ok {
			return currency, nil
		}
		return domain.Currency{}, domain.CurrencyNotFoundError{ChainID: chainID, AddressOrAlias: addressOrAlias}
	}

	if key, ok := t.symbolToKey[formatSymbolKey(chainID, addressOrAlias)]; ok {
		return t.currencies[key], nil
	}

	return domain.Currency{}, domain.CurrencyNotFoundError{ChainID: chainID, AddressOrAlias: addressOrAlias}
}

// GetAllCurrencies implements mvc.TokensUsecase.
func (t *tokensUseCase) GetAllCurrencies() []domain.Currency {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]domain.Currency, 0, len(t.currencies))
	for _, currency := range t.currencies {
		result = append(result, currency)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key() < result[j].Key()
	})
	return result
}

// GetCoingeckoID implements mvc.TokensUsecase.
func (t *tokensUseCase) GetCoingeckoID(currency domain.Currency) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.coingeckoIDs[currency.Key()]
	return id, ok && id != ""
}

// LoadTokens implements mvc.TokensUsecase.
// Invalid entries are logged and skipped.
func (t *tokensUseCase) LoadTokens(tokens []domain.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	loaded := 0
	for _, token := range tokens {
		currency, err := tokenToCurrency(token)
		if err != nil {
			t.logger.Error("skipping token", zap.Error(err))
			continue
		}

		t.register(currency, true)
		if token.CoingeckoID != "" {
			t.coingeckoIDs[currency.Key()] = token.CoingeckoID
		}
		loaded++
	}

	t.logger.Info("loaded tokens", zap.Int("num_tokens", loaded), zap.Int("num_skipped", len(tokens)-loaded))
}

// RegisterCurrencies implements mvc.TokensUsecase.
func (t *tokensUseCase) RegisterCurrencies(currencies []domain.Currency) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, currency := range currencies {
		t.register(currency, false)
	}
}

// register must be called with the lock held.
func (t *tokensUseCase) register(currency domain.Currency, overwrite bool) {
	key := currency.Key()
	if _, exists := t.currencies[key]; exists && !overwrite {
		return
	}
	t.currencies[key] = currency

	if currency.Symbol == "" {
		return
	}
	symbolKey := formatSymbolKey(currency.ChainID, currency.Symbol)
	// The first currency registered with a symbol owns it.
	if _, taken := t.symbolToKey[symbolKey]; !taken {
		t.symbolToKey[symbolKey] = key
	}
}

func tokenToCurrency(token domain.Token) (domain.Currency, error) {
	if domain.IsNativeAlias(token.Address) {
		return domain.NativeCurrency(token.ChainID), nil
	}
	address, ok := domain.ParseAddress(token.Address)
	if !ok {
		return domain.Currency{}, InvalidTokenError{Address: token.Address, Reason: "not a hex address"}
	}
	if token.ChainID == 0 {
		return domain.Currency{}, InvalidTokenError{Address: token.Address, Reason: "missing chain ID"}
	}
	return domain.NewToken(token.ChainID, address, token.Decimals, token.Symbol), nil
}

func formatSymbolKey(chainID domain.ChainID, symbol string) string {
	return fmt.Sprintf("%d/%s", chainID, strings.ToLower(symbol))
}

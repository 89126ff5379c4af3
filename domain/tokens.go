package domain

// Token is an entry of a token list.
type Token struct {
	ChainID  ChainID `json:"chainId"`
	Address  string  `json:"address"`
	Decimals uint8   `json:"decimals"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name,omitempty"`
	// CoingeckoID is used by the coingecko price oracle.
	CoingeckoID string `json:"coingeckoId,omitempty"`
}

// TokenList is a token list document.
type TokenList struct {
	Name   string  `json:"name"`
	Tokens []Token `json:"tokens"`
}

// TokensConfig defines the config for the currency registry.
type TokensConfig struct {
	// URL or file path of a token list. Empty registers pool currencies only.
	TokenListURL string `mapstructure:"token-list-url"`
	// Token list refetch interval in seconds. Zero fetches once.
	RefetchIntervalSecs int `mapstructure:"refetch-interval-secs"`
}

// TokenRegistryLoader is loader of tokens from a token list.
// Loaded tokens are used to update the currency registry.
type TokenRegistryLoader interface {
	// FetchAndUpdateTokens fetches tokens from the token list and updates the currency registry.
	FetchAndUpdateTokens() error
}

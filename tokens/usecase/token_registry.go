package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	deliveryhttp "github.com/plunderswap/sor/delivery/http"
	"github.com/plunderswap/sor/domain"
	"github.com/plunderswap/sor/domain/json"
)

const tokenListFetchTimeout = 30 * time.Second

// GetTokensFromTokenListFunc is a GetTokensFromTokenList function signature.
type GetTokensFromTokenListFunc func(tokenListURL string) ([]domain.Token, string, error)

// LoadTokensFunc receives the fetched tokens.
type LoadTokensFunc func(tokens []domain.Token)

// GetTokensFromTokenList fetches a token list from an http(s) URL or reads it from a file path.
// It returns the tokens and the md5 hash of the document.
func GetTokensFromTokenList(tokenListURL string) ([]domain.Token, string, error) {
	data, err := readTokenList(tokenListURL)
	if err != nil {
		return nil, "", err
	}

	var tokenList domain.TokenList
	if err := json.Unmarshal(data, &tokenList); err != nil {
		return nil, "", fmt.Errorf("failed to parse token list (%s): %w", tokenListURL, err)
	}

	return tokenList.Tokens, fmt.Sprintf("%x", md5.Sum(data)), nil
}

func readTokenList(tokenListURL string) ([]byte, error) {
	if !strings.HasPrefix(tokenListURL, "http://") && !strings.HasPrefix(tokenListURL, "https://") {
		return os.ReadFile(tokenListURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), tokenListFetchTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenListURL, nil)
	if err != nil {
		return nil, err
	}

	response, err := deliveryhttp.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch token list (%s): %s", tokenListURL, response.Status)
	}

	return io.ReadAll(response.Body)
}

// TokenListFetcher fetches a token list and passes it to loadTokens when it changes.
type TokenListFetcher struct {
	tokenListURL           string
	getTokensFromTokenList GetTokensFromTokenListFunc
	loadTokens             LoadTokensFunc
	lastFetchHash          string
}

var _ domain.TokenRegistryLoader = &TokenListFetcher{}

// NewTokenListFetcher creates a new instance of TokenListFetcher.
func NewTokenListFetcher(tokenListURL string, getTokensFromTokenList GetTokensFromTokenListFunc, loadTokens LoadTokensFunc) *TokenListFetcher {
	return &TokenListFetcher{
		tokenListURL:           tokenListURL,
		getTokensFromTokenList: getTokensFromTokenList,
		loadTokens:             loadTokens,
	}
}

// FetchAndUpdateTokens implements domain.TokenRegistryLoader.
// In case there were no changes since last fetch, it does not call loadTokens.
func (f *TokenListFetcher) FetchAndUpdateTokens() error {
	tokens, hash, err := f.getTokensFromTokenList(f.tokenListURL)
	if err != nil {
		return err
	}

	if f.lastFetchHash != hash {
		f.loadTokens(tokens)
		f.lastFetchHash = hash
	}

	return nil
}

package mocks

import (
	"sync/atomic"

	"github.com/plunderswap/sor/domain"
)

// TokenRegistryLoaderMock counts token list loads.
// Err is returned from every load once set, FailAfter loads succeed before that.
type TokenRegistryLoaderMock struct {
	Err       error
	FailAfter int64

	loads atomic.Int64
}

var _ domain.TokenRegistryLoader = &TokenRegistryLoaderMock{}

// FetchAndUpdateTokens implements domain.TokenRegistryLoader.
func (m *TokenRegistryLoaderMock) FetchAndUpdateTokens() error {
	n := m.loads.Add(1)
	if m.Err != nil && n > m.FailAfter {
		return m.Err
	}
	return nil
}

// Loads returns the number of FetchAndUpdateTokens calls.
func (m *TokenRegistryLoaderMock) Loads() int64 {
	return m.loads.Load()
}

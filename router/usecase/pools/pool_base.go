package pools

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/plunderswap/sor/domain"
)

// poolBase holds the identity shared by all pool implementations.
type poolBase struct {
	address     common.Address
	poolType    domain.PoolType
	currency0   domain.Currency
	currency1   domain.Currency
	blockNumber uint64
}

// GetAddress implements domain.Pool.
func (p *poolBase) GetAddress() common.Address {
	return p.address
}

// GetID implements domain.Pool.
func (p *poolBase) GetID() string {
	return strings.ToLower(p.address.Hex())
}

// GetType implements domain.Pool.
func (p *poolBase) GetType() domain.PoolType {
	return p.poolType
}

// GetCurrency0 implements domain.Pool.
func (p *poolBase) GetCurrency0() domain.Currency {
	return p.currency0
}

// GetCurrency1 implements domain.Pool.
func (p *poolBase) GetCurrency1() domain.Currency {
	return p.currency1
}

// GetBlockNumber implements domain.Pool.
func (p *poolBase) GetBlockNumber() uint64 {
	return p.blockNumber
}

// Involves implements domain.Pool.
func (p *poolBase) Involves(currency domain.Currency) bool {
	wrapped := currency.Wrapped()
	return p.currency0.Equals(wrapped) || p.currency1.Equals(wrapped)
}

// Other implements domain.Pool.
func (p *poolBase) Other(currency domain.Currency) domain.Currency {
	if p.currency0.Equals(currency.Wrapped()) {
		return p.currency1
	}
	return p.currency0
}

// zeroForOne returns true if currency is token0 and an error if it is in neither side.
func (p *poolBase) zeroForOne(currency domain.Currency) (bool, error) {
	wrapped := currency.Wrapped()
	switch {
	case p.currency0.Equals(wrapped):
		return true, nil
	case p.currency1.Equals(wrapped):
		return false, nil
	default:
		return false, domain.CurrencyNotInPoolError{PoolID: p.GetID(), Currency: currency.String()}
	}
}

func (p *poolBase) String() string {
	return fmt.Sprintf("%s(%s %s/%s)", p.poolType, p.GetID(), p.currency0, p.currency1)
}

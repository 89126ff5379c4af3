package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
)

// PoolType is the AMM protocol a pool implements.
// Each value corresponds to a pool implementation in router/usecase/pools.
type PoolType int

const (
	// PoolTypeV2 is a constant product (x*y=k) pool.
	PoolTypeV2 PoolType = iota
	// PoolTypeV3 is a concentrated liquidity pool.
	PoolTypeV3
	// PoolTypeStable is a stable swap pool.
	PoolTypeStable
)

// AllPoolTypes lists every supported pool type.
var AllPoolTypes = []PoolType{PoolTypeV2, PoolTypeV3, PoolTypeStable}

func (t PoolType) String() string {
	switch t {
	case PoolTypeV2:
		return "V2"
	case PoolTypeV3:
		return "V3"
	case PoolTypeStable:
		return "STABLE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t PoolType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PoolType) UnmarshalText(text []byte) error {
	parsed, err := ParsePoolType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParsePoolType parses a pool type from its string form (case insensitive).
func ParsePoolType(s string) (PoolType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "V2":
		return PoolTypeV2, nil
	case "V3":
		return PoolTypeV3, nil
	case "STABLE", "STABLESWAP":
		return PoolTypeStable, nil
	default:
		return 0, InvalidPoolTypeError{PoolType: s}
	}
}

// SwapResult is the outcome of simulating a swap through a single pool.
type SwapResult struct {
	Amount CurrencyAmount
	// InitializedTicksCrossed is only non-zero for concentrated pools.
	InitializedTicksCrossed uint32
}

// Pool is a read-only liquidity pool snapshot taken at a block.
// Simulating a swap never mutates the pool.
type Pool interface {
	GetAddress() common.Address
	// GetID returns the pool identity used for route deduplication.
	GetID() string
	GetType() PoolType
	GetCurrency0() Currency
	GetCurrency1() Currency
	GetBlockNumber() uint64

	// Involves returns true if the currency is one of the pool tokens.
	Involves(currency Currency) bool
	// Other returns the pool token opposite to the given one.
	Other(currency Currency) Currency

	// CalculateTokenOutByTokenIn returns the amount of the other token received for tokenIn.
	CalculateTokenOutByTokenIn(tokenIn CurrencyAmount) (SwapResult, error)
	// CalculateTokenInByTokenOut returns the amount of the other token required to receive tokenOut.
	CalculateTokenInByTokenOut(tokenOut CurrencyAmount) (SwapResult, error)

	// SpotPrice returns the marginal price of one raw unit of base in raw units of the other token.
	SpotPrice(base Currency) (osmomath.BigDec, error)

	// GetLiquidity returns the pool balance of the given token.
	GetLiquidity(currency Currency) osmomath.Int

	String() string
}

// FeeTierPool is implemented by pools whose contracts are addressed by fee tier.
type FeeTierPool interface {
	Pool
	// GetFee returns the fee in hundredths of a basis point.
	GetFee() uint32
}

// CandidatePoolsParams selects the pools relevant to a currency pair.
type CandidatePoolsParams struct {
	CurrencyA   Currency
	CurrencyB   Currency
	BlockNumber uint64
	// Protocols restricts the pool types returned. Empty means all.
	Protocols []PoolType
}

// PoolProvider supplies the pool universe for a currency pair at a block.
type PoolProvider interface {
	GetCandidatePools(ctx context.Context, params CandidatePoolsParams) ([]Pool, error)
}

// IsPoolTypeAllowed returns true if poolType is in allowed or allowed is empty.
func IsPoolTypeAllowed(poolType PoolType, allowed []PoolType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == poolType {
			return true
		}
	}
	return false
}

// PoolsConfig configures the pool universe loaded by the service.
type PoolsConfig struct {
	// Path to the JSON pools snapshot file.
	SnapshotPath string `mapstructure:"snapshot-path"`
	// Number of (pair, block) candidate pool sets kept in memory.
	CacheSize int `mapstructure:"cache-size"`
	// Candidate pool set expiry in seconds.
	CacheExpirySeconds int `mapstructure:"cache-expiry-seconds"`
	// Base tokens used as intermediaries when selecting candidate pools.
	BaseTokens []string `mapstructure:"base-tokens"`
}

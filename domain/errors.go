package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the error codespace of the router.
const ModuleName = "sor"

var (
	// ErrNoValidRoute is returned when no route combination covers the trade.
	ErrNoValidRoute = errorsmod.Register(ModuleName, 2, "Cannot find a valid swap route")
	// ErrQuoteCancelled is returned when the caller cancels a trade mid flight.
	ErrQuoteCancelled = errorsmod.Register(ModuleName, 3, "quote request cancelled")
	// ErrExactOutputNotSupported is returned by pools that can only be swapped with a fixed input.
	ErrExactOutputNotSupported = errorsmod.Register(ModuleName, 4, "exact output swaps are not supported by this pool")
	// ErrInvalidDistributionPercent is returned when the distribution percent does not divide 100.
	ErrInvalidDistributionPercent = errorsmod.Register(ModuleName, 5, "distribution percent must divide 100")
	// ErrNoQuoteProvider is returned when a trade is requested without a quote provider.
	ErrNoQuoteProvider = errorsmod.Register(ModuleName, 6, "quote provider is not configured")
	// ErrNoPoolProvider is returned when a trade is requested without a pool provider.
	ErrNoPoolProvider = errorsmod.Register(ModuleName, 7, "pool provider is not configured")
	// ErrPriceNotFound is returned by price oracles with no price for a currency.
	ErrPriceNotFound = errorsmod.Register(ModuleName, 8, "price not found")
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
)

// StatusClientClosedRequest is the de facto status for requests cancelled by the client.
const StatusClientClosedRequest = 499

// GetStatusCode returns status code given error
func GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		invalidTradeConfigErr InvalidTradeConfigError
		invalidPoolTypeErr    InvalidPoolTypeError
		currencyNotFoundErr   CurrencyNotFoundError
		poolNotFoundErr       PoolNotFoundError
		snapshotNotFoundErr   PoolsSnapshotNotFoundError
	)

	switch {
	case errors.Is(err, ErrNoValidRoute), errors.Is(err, ErrNotFound),
		errors.As(err, &poolNotFoundErr),
		errors.As(err, &snapshotNotFoundErr):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrQuoteCancelled), errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, ErrBadParamInput),
		errors.Is(err, ErrInvalidDistributionPercent),
		errors.As(err, &invalidTradeConfigErr),
		errors.As(err, &invalidPoolTypeErr),
		errors.As(err, &currencyNotFoundErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// NewQuoteCancelledError wraps the context error so that both errors.Is(err, ErrQuoteCancelled)
// and errors.Is(err, context.Canceled) hold.
func NewQuoteCancelledError(ctxErr error) error {
	return fmt.Errorf("%w: %w", ErrQuoteCancelled, ctxErr)
}

// InvalidPoolTypeError is an error type for invalid pool type.
type InvalidPoolTypeError struct {
	PoolType string
}

func (e InvalidPoolTypeError) Error() string {
	return fmt.Sprintf("invalid pool type: %s", e.PoolType)
}

// InvalidTradeConfigError is returned when a trade config field is out of range.
type InvalidTradeConfigError struct {
	Field  string
	Reason string
}

func (e InvalidTradeConfigError) Error() string {
	return fmt.Sprintf("invalid trade config field (%s): %s", e.Field, e.Reason)
}

// QuoteError is a failed quote for a route at a distribution percent.
type QuoteError struct {
	RouteID string
	Percent uint8
	Err     error
}

func (e QuoteError) Error() string {
	return fmt.Sprintf("failed to quote route (%s) at (%d) percent: %v", e.RouteID, e.Percent, e.Err)
}

func (e QuoteError) Unwrap() error {
	return e.Err
}

// InsufficientLiquidityError is returned when a pool cannot fill a swap.
type InsufficientLiquidityError struct {
	PoolID string
}

func (e InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("pool (%s) has insufficient liquidity", e.PoolID)
}

// CurrencyNotInPoolError is returned when swapping a currency a pool does not hold.
type CurrencyNotInPoolError struct {
	PoolID   string
	Currency string
}

func (e CurrencyNotInPoolError) Error() string {
	return fmt.Sprintf("currency (%s) is not in pool (%s)", e.Currency, e.PoolID)
}

// PoolNotFoundError is returned when a pool address is unknown.
type PoolNotFoundError struct {
	PoolID string
}

func (e PoolNotFoundError) Error() string {
	return fmt.Sprintf("pool with ID (%s) is not found", e.PoolID)
}

// ConcentratedNoLiquidityError is returned when a concentrated pool has no active liquidity.
type ConcentratedNoLiquidityError struct {
	PoolID string
}

func (e ConcentratedNoLiquidityError) Error() string {
	return fmt.Sprintf("pool (%s) has no liquidity", e.PoolID)
}

// StableSwapNotConvergedError is returned when the stable invariant solver does not converge.
type StableSwapNotConvergedError struct {
	PoolID     string
	Iterations int
}

func (e StableSwapNotConvergedError) Error() string {
	return fmt.Sprintf("stable swap pool (%s) did not converge after (%d) iterations", e.PoolID, e.Iterations)
}

// UnsupportedRouteError is returned by quote providers that cannot quote a route.
type UnsupportedRouteError struct {
	RouteID string
	Reason  string
}

func (e UnsupportedRouteError) Error() string {
	return fmt.Sprintf("route (%s) is not supported: %s", e.RouteID, e.Reason)
}

// PoolsSnapshotNotFoundError is returned when no pools snapshot exists at or before a block.
type PoolsSnapshotNotFoundError struct {
	BlockNumber uint64
}

func (e PoolsSnapshotNotFoundError) Error() string {
	return fmt.Sprintf("no pools snapshot at or before block (%d)", e.BlockNumber)
}

// StaleHeightError is returned when the chain height has not advanced for too long.
type StaleHeightError struct {
	StoredHeight            uint64
	TimeSinceLastUpdate     int
	MaxAllowedTimeDeltaSecs int
}

func (e StaleHeightError) Error() string {
	return fmt.Sprintf("chain height (%d) has not been updated for (%d) seconds, max allowed (%d)", e.StoredHeight, e.TimeSinceLastUpdate, e.MaxAllowedTimeDeltaSecs)
}

// StaleGasPriceError is returned when the cached gas price is older than allowed.
type StaleGasPriceError struct {
	Age    time.Duration
	MaxAge time.Duration
}

func (e StaleGasPriceError) Error() string {
	return fmt.Sprintf("gas price is (%s) old, max allowed (%s)", e.Age, e.MaxAge)
}

// CurrencyNotFoundError is returned when an address or alias does not resolve to a known currency.
type CurrencyNotFoundError struct {
	ChainID        ChainID
	AddressOrAlias string
}

func (e CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("currency (%s) not found on chain (%d)", e.AddressOrAlias, e.ChainID)
}

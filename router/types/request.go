package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/plunderswap/sor/domain"
)

// Bounds of the request route overrides. Search cost grows with hops, splits and slices.
const (
	MaxHopsLimit           = 4
	MaxSplitsLimit         = 7
	MinDistributionPercent = 5
)

// GetQuoteRequest represents swap quote request for the /router/quote endpoint.
// Amounts are raw integer amounts in the smallest unit of the token.
type GetQuoteRequest struct {
	TokenIn         *osmomath.Int
	TokenOutAddress string
	TokenOut        *osmomath.Int
	TokenInAddress  string

	MaxHops             int
	MaxSplits           int
	DistributionPercent int
	BlockNumber         uint64
	PoolTypes           []domain.PoolType
}

// UnmarshalHTTPRequest implements http.RequestUnmarshaler.
func (r *GetQuoteRequest) UnmarshalHTTPRequest(c echo.Context) error {
	var err error

	if tokenIn := c.QueryParam("tokenIn"); tokenIn != "" {
		r.TokenIn, err = parseAmount(tokenIn)
		if err != nil {
			return ErrTokenInNotValid
		}
	}

	if tokenOut := c.QueryParam("tokenOut"); tokenOut != "" {
		r.TokenOut, err = parseAmount(tokenOut)
		if err != nil {
			return ErrTokenOutNotValid
		}
	}

	r.TokenInAddress = strings.TrimSpace(c.QueryParam("tokenInAddress"))
	r.TokenOutAddress = strings.TrimSpace(c.QueryParam("tokenOutAddress"))

	if r.MaxHops, err = parseIntParam(c, "maxHops"); err != nil {
		return err
	}
	if r.MaxSplits, err = parseIntParam(c, "maxSplits"); err != nil {
		return err
	}
	if r.DistributionPercent, err = parseIntParam(c, "distributionPercent"); err != nil {
		return err
	}

	if blockNumber := c.QueryParam("blockNumber"); blockNumber != "" {
		r.BlockNumber, err = strconv.ParseUint(blockNumber, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: blockNumber: %s", ErrInvalidQueryParam, err)
		}
	}

	if poolTypes := c.QueryParam("poolTypes"); poolTypes != "" {
		r.PoolTypes, err = domain.ParsePoolTypes([]string{poolTypes})
		if err != nil {
			return err
		}
	}

	return nil
}

// TradeType returns the trade type implied by the amount given.
// Exactly one of tokenIn and tokenOut must be set.
func (r *GetQuoteRequest) TradeType() (domain.TradeType, error) {
	isExactIn := r.TokenIn != nil
	isExactOut := r.TokenOut != nil

	switch {
	case isExactIn && !isExactOut:
		return domain.TradeTypeExactInput, nil
	case isExactOut && !isExactIn:
		return domain.TradeTypeExactOutput, nil
	default:
		return 0, ErrSwapMethodNotValid
	}
}

// Amount returns the fixed side amount of the request.
func (r *GetQuoteRequest) Amount() osmomath.Int {
	if r.TokenIn != nil {
		return *r.TokenIn
	}
	if r.TokenOut != nil {
		return *r.TokenOut
	}
	return osmomath.ZeroInt()
}

// Validate validates the GetQuoteRequest
func (r *GetQuoteRequest) Validate() error {
	// Request must contain either swap exact amount in or swap exact amount out
	if _, err := r.TradeType(); err != nil {
		return err
	}

	if r.TokenInAddress == "" {
		return ErrTokenInAddressNotSpecified
	}

	if r.TokenOutAddress == "" {
		return ErrTokenOutAddressNotSpecified
	}

	if strings.EqualFold(r.TokenInAddress, r.TokenOutAddress) {
		return ErrSameTokens
	}

	if err := validateMaxHops(r.MaxHops); err != nil {
		return err
	}
	if r.MaxSplits > MaxSplitsLimit {
		return fmt.Errorf("%w: maxSplits must be at most %d", ErrInvalidQueryParam, MaxSplitsLimit)
	}
	// Zero keeps the configured value.
	if r.DistributionPercent != 0 && r.DistributionPercent < MinDistributionPercent {
		return fmt.Errorf("%w: distributionPercent must be at least %d", ErrInvalidQueryParam, MinDistributionPercent)
	}

	return nil
}

// RouterOptions converts the optional request overrides into router options.
func (r *GetQuoteRequest) RouterOptions() []domain.RouterOption {
	var opts []domain.RouterOption
	if r.MaxHops > 0 {
		opts = append(opts, domain.WithMaxHops(r.MaxHops))
	}
	if r.MaxSplits > 0 {
		opts = append(opts, domain.WithMaxSplits(r.MaxSplits))
	}
	if r.DistributionPercent > 0 {
		opts = append(opts, domain.WithDistributionPercent(r.DistributionPercent))
	}
	if r.BlockNumber > 0 {
		opts = append(opts, domain.WithBlockNumber(r.BlockNumber))
	}
	if len(r.PoolTypes) > 0 {
		opts = append(opts, domain.WithAllowedPoolTypes(r.PoolTypes))
	}
	return opts
}

// GetRoutesRequest represents the candidate routes request for the /router/routes endpoint.
type GetRoutesRequest struct {
	TokenInAddress  string
	TokenOutAddress string
	MaxHops         int
}

// UnmarshalHTTPRequest implements http.RequestUnmarshaler.
func (r *GetRoutesRequest) UnmarshalHTTPRequest(c echo.Context) error {
	r.TokenInAddress = strings.TrimSpace(c.QueryParam("tokenInAddress"))
	r.TokenOutAddress = strings.TrimSpace(c.QueryParam("tokenOutAddress"))

	var err error
	r.MaxHops, err = parseIntParam(c, "maxHops")
	return err
}

// Validate validates the GetRoutesRequest
func (r *GetRoutesRequest) Validate() error {
	if r.TokenInAddress == "" {
		return ErrTokenInAddressNotSpecified
	}
	if r.TokenOutAddress == "" {
		return ErrTokenOutAddressNotSpecified
	}
	if strings.EqualFold(r.TokenInAddress, r.TokenOutAddress) {
		return ErrSameTokens
	}
	return validateMaxHops(r.MaxHops)
}

func validateMaxHops(maxHops int) error {
	if maxHops > MaxHopsLimit {
		return fmt.Errorf("%w: maxHops must be at most %d", ErrInvalidQueryParam, MaxHopsLimit)
	}
	return nil
}

func parseAmount(s string) (*osmomath.Int, error) {
	amount, ok := osmomath.NewIntFromString(strings.TrimSpace(s))
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &amount, nil
}

func parseIntParam(c echo.Context, paramName string) (int, error) {
	value, err := domain.ParseIntQueryParam(c, paramName)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrInvalidQueryParam, paramName, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidQueryParam, paramName)
	}
	return value, nil
}

package types

import "errors"

// Handler Errors
var (
	ErrTokenInNotValid             = errors.New("tokenIn is invalid - must be a positive integer amount in raw units")
	ErrTokenOutNotValid            = errors.New("tokenOut is invalid - must be a positive integer amount in raw units")
	ErrTokenInAddressNotSpecified  = errors.New("tokenInAddress is required")
	ErrTokenOutAddressNotSpecified = errors.New("tokenOutAddress is required")
	ErrSwapMethodNotValid          = errors.New("swap method is invalid - must be either swap exact amount in or swap exact amount out")
	ErrSameTokens                  = errors.New("tokenInAddress and tokenOutAddress must differ")
	ErrInvalidQueryParam           = errors.New("invalid query parameter")
)

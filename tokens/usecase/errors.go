package usecase

import "fmt"

// InvalidTokenError is returned for token list entries that cannot be registered.
type InvalidTokenError struct {
	Address string
	Reason  string
}

// Error implements the error interface.
func (e InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token (%s): %s", e.Address, e.Reason)
}

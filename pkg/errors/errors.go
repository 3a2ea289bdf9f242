package apperrors

import "errors"

// Strategy errors
var (
	ErrMarketNotFound        = errors.New("market not found")
	ErrMarketDataUnavailable = errors.New("market data unavailable")
	ErrSubmissionRejected    = errors.New("order submission rejected")
)

// Standardized exchange errors
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrRateLimitExceeded     = errors.New("rate limit exceeded")
	ErrAuthenticationFailed  = errors.New("authentication failed")
	ErrInvalidOrderParameter = errors.New("invalid order parameter")
	ErrTimestampOutOfBounds  = errors.New("timestamp out of bounds")
)

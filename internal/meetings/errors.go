package meetings

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrTerminalConflict indicates an attempt to write one terminal status
	// over the other. Callers treat it as a logic error and never retry.
	ErrTerminalConflict = errors.New("meeting already in a different terminal state")
)

const (
	ErrorCodeInvalidInput    = "INVALID_INPUT"
	ErrorCodeFilteredOut     = "FILTERED_OUT"
	ErrorCodeNoCustomerMatch = "NO_CUSTOMER_MATCH"
	ErrorCodeRateLimited     = "RATE_LIMITED"
)

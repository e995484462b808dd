package amm

import "errors"

var (
	// ErrInvalidAmount indicates a non-positive input amount.
	ErrInvalidAmount = errors.New("amm: amount in must be greater than zero")
	// ErrInvalidPoolState indicates a zero or negative reserve. The pool is
	// either uninitialised or the caller's reserve data is stale.
	ErrInvalidPoolState = errors.New("amm: pool reserves must be greater than zero")
	// ErrInvalidSlippage indicates slippage basis points outside [0, 10000).
	ErrInvalidSlippage = errors.New("amm: slippage bps must be in [0, 10000)")
	// ErrNegativeSlippageFactor is unreachable once slippage is validated.
	ErrNegativeSlippageFactor = errors.New("amm: slippage factor is negative")
	// ErrDivisionByZero is returned by MulDivFloor for a zero denominator.
	ErrDivisionByZero = errors.New("amm: division by zero")
	// ErrInvalidDecimal indicates a decimal literal that could not be parsed.
	ErrInvalidDecimal = errors.New("amm: invalid decimal literal")
	// ErrUnknownDirection indicates a TradeDirection outside the defined variants.
	ErrUnknownDirection = errors.New("amm: unknown trade direction")
)

// IsUserError reports whether err is something the end user can fix by
// changing their input. Everything else points at upstream data or a bug.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidSlippage)
}

// isInvariantError reports whether err is one of the conditions
// that validation should have made unreachable.
func isInvariantError(err error) bool {
	return errors.Is(err, ErrDivisionByZero) || errors.Is(err, ErrNegativeSlippageFactor)
}

// Package util holds application-wide error sentinels.
package util

import "errors"

// Common application-specific errors. The HTTP layer maps these to status
// codes; everything else is treated as an internal error.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrCurrencyMismatch    = errors.New("transaction currency must match account currency")
	ErrRateNotFound        = errors.New("no exchange rate available for currency pair")
	ErrCategoryCycle       = errors.New("category parent assignment would create a cycle")
	ErrCrossOwnerParent    = errors.New("category parent must belong to the same owner")
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	ErrAlreadyPaired       = errors.New("transaction is already paired with a transfer")
	ErrInvalidDateRange    = errors.New("end date must not precede start date")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrUnauthorized        = errors.New("authentication required")
)

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

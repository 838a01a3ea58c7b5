package apperrors

import "errors"

// Validation failures: malformed or out-of-bound input to a constructor/mutator.
var (
	ErrMissingName        = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds 100 characters")
	ErrDescriptionTooLong = errors.New("description exceeds 500 characters")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price amount must be positive")
	ErrInvalidSalesPeriod = errors.New("sales period start must precede end")
	ErrInvalidInput       = errors.New("invalid input")
)

// Invariant violations: the requested transition would break a business rule.
var (
	ErrSoldExceedsQuantity      = errors.New("sold quantity exceeds total quantity")
	ErrCannotModifyAfterSales   = errors.New("cannot modify after sales have started")
	ErrCannotReduceQuantity     = errors.New("cannot reduce quantity below sold count")
	ErrNonPositiveDelta         = errors.New("delta must be positive")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrExceedsSoldCount         = errors.New("delta exceeds sold count")
	ErrCannotReactivateSoldOut  = errors.New("cannot reactivate a sold out ticket type")
	ErrNoRevenue                = errors.New("no revenue: nothing sold")
)

// Infrastructure failures.
var (
	ErrTicketTypeNotFound     = errors.New("ticket type not found")
	ErrDuplicateEvent         = errors.New("event already stored")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrInternalServerError    = errors.New("internal server error")
)

package orders

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order not found")

// ValidationError rejects malformed input before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StockConflictError names the product whose stock ran out.
type StockConflictError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (product %d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// ProductUnavailableError rejects purchases of inactive or out-of-stock
// products.
type ProductUnavailableError struct {
	ProductID int64
	Status    string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d is not purchasable (status %s)", e.ProductID, e.Status)
}

// TransitionError rejects an illegal order-status transition.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// LogisticsTransitionError rejects an illegal logistics-status transition.
type LogisticsTransitionError struct {
	From LogisticsStatus
	To   LogisticsStatus
}

func (e *LogisticsTransitionError) Error() string {
	return fmt.Sprintf("invalid logistics status transition %s -> %s", e.From, e.To)
}

// ForbiddenError is distinct from conflict errors: the transition may be
// legal, but not for this role.
type ForbiddenError struct {
	Role   Role
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Action)
}

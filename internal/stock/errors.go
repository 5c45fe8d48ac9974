package stock

import (
	"errors"
	"fmt"
)

// NotFoundError reports a referenced stand, item, window or link that does
// not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// InvalidQuantityError reports a sale or transfer asking for a non-positive
// quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be positive, got %d", e.Quantity)
}

// InsufficientStockError reports a decrement that would take an inventory
// item below zero.
type InsufficientStockError struct {
	Item string
	Have int
	Want int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %s: have %d, trying to remove %d", e.Item, e.Have, e.Want)
}

// UnavailableError reports an attempted sale of a menu item that is not
// currently displayable.
type UnavailableError struct {
	MenuItem string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("menu item %q is not available", e.MenuItem)
}

// InactiveResourceError reports an operation through an inactive resource,
// such as a sale at a closed window.
type InactiveResourceError struct {
	Resource string
	ID       uint
}

func (e *InactiveResourceError) Error() string {
	return fmt.Sprintf("%s with ID %d is not active", e.Resource, e.ID)
}

// MissingReferenceError reports a required external reference that was not
// supplied, such as a card payment without a processor reference.
type MissingReferenceError struct {
	Field string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// OwnershipMismatchError reports a resource operated on via the wrong parent
// stand.
type OwnershipMismatchError struct {
	Resource string
	StandID  uint
}

func (e *OwnershipMismatchError) Error() string {
	return fmt.Sprintf("%s does not belong to stand %d", e.Resource, e.StandID)
}

// IsNotFound reports whether err is a missing-resource failure. Anything
// else a Service returns is either a business-rule rejection or a storage
// fault.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRejected reports whether err is a business-rule rejection caused by the
// caller's input rather than a storage fault.
func IsRejected(err error) bool {
	var (
		invalid      *InvalidQuantityError
		insufficient *InsufficientStockError
		unavailable  *UnavailableError
		inactive     *InactiveResourceError
		missing      *MissingReferenceError
		ownership    *OwnershipMismatchError
	)
	return errors.As(err, &invalid) ||
		errors.As(err, &insufficient) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &inactive) ||
		errors.As(err, &missing) ||
		errors.As(err, &ownership)
}

package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure for the boundary layer
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInvalidState
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidState:
		return "invalid_state"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is a classified, user-safe service error
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error carrying the same kind and message
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the classification of err; unclassified errors are unexpected
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

var (
	ErrUserNotFound      = NotFound("User not found")
	ErrRoleNotFound      = NotFound("Role not found")
	ErrEmailExists       = Conflict("Email already registered")
	ErrEmailInUse        = Conflict("Email is already in use")
	ErrInvalidCredential = &Error{Kind: KindInvalidArgument, Message: "Invalid email or password"}
	ErrCannotDeleteAdmin = Forbidden("Admin accounts cannot be deleted")
	ErrUserHasHistory    = Conflict("Account still owns shops or has orders and cannot be deleted")

	ErrShopNotFound       = NotFound("Shop not found")
	ErrShopNotOperational = InvalidState("Shop is not currently accepting orders")
	ErrShopNotActive      = InvalidState("Only active shops can be opened or closed")
	ErrShopMenuInactive   = InvalidState("Can only add items to active shops")

	ErrMenuItemNotFound = NotFound("Menu item not found")
	ErrItemWrongShop    = InvalidArgument("Menu item does not belong to the shop")

	ErrCustomerNotFound = NotFound("Customer not found")
	ErrOrderNotFound    = NotFound("Order not found")
	ErrOrderTerminal    = InvalidState("Cannot cancel order with current status")
	ErrOrderNoItems     = InvalidArgument("Order must contain at least one item")
	ErrInvalidQuantity  = InvalidArgument("Quantity must be at least 1")
	ErrStatusChanged    = InvalidState("Status changed concurrently, reload and retry")
	ErrInvalidDateRange = InvalidArgument("startDate must not be after endDate")
)

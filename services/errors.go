package services

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error carries a code the HTTP layer maps to a status and a message safe to
// return to clients.
type Error struct {
	Code    string
	Message string
	// Err is the sentinel this error refines, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the first *Error in err's chain, or EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the client-facing message of err.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func refine(base *Error, format string, args ...any) *Error {
	return &Error{Code: base.Code, Message: fmt.Sprintf(format, args...), Err: base}
}

var (
	ErrProductNotFound   = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound  = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrParentNotFound    = &Error{Code: ENOTFOUND, Message: "Parent category not found"}
	ErrCartItemNotFound  = &Error{Code: ENOTFOUND, Message: "Item not found in cart"}
	ErrOrderNotFound     = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrSlideNotFound     = &Error{Code: ENOTFOUND, Message: "Slide not found"}
	ErrPromotionNotFound = &Error{Code: ENOTFOUND, Message: "Invalid promotion code"}

	ErrInsufficientStock   = &Error{Code: EINVALID, Message: "Not enough stock"}
	ErrCategoryHasProducts = &Error{Code: EINVALID, Message: "Cannot delete category with existing products"}
	ErrCategoryHasChildren = &Error{Code: EINVALID, Message: "Cannot delete category with existing subcategories"}
	ErrEmptyOrder          = &Error{Code: EINVALID, Message: "Order must contain at least one item"}
	ErrInvalidStatus       = &Error{Code: EINVALID, Message: "Invalid order status"}
	ErrInvalidQuantity     = &Error{Code: EINVALID, Message: "Quantity must be greater than zero"}

	ErrPromotionNotStarted   = &Error{Code: EINVALID, Message: "Promotion not started yet"}
	ErrPromotionExpired      = &Error{Code: EINVALID, Message: "Promotion has expired"}
	ErrPromotionExhausted    = &Error{Code: EINVALID, Message: "Promotion maximum uses reached"}
	ErrPromotionBelowMinimum = &Error{Code: EINVALID, Message: "Minimum purchase amount not reached"}
	ErrDuplicatePromotion    = &Error{Code: ECONFLICT, Message: "Promotion code already exists"}

	ErrInvalidSignature      = &Error{Code: EINVALID, Message: "Invalid webhook signature"}
	ErrMissingOrderReference = &Error{Code: EINVALID, Message: "Order ID missing from payment metadata"}
	ErrDuplicateEvent        = &Error{Code: ECONFLICT, Message: "Event already processed"}
	ErrOrderNotPaid          = &Error{Code: ECONFLICT, Message: "Only paid orders can be marked as delivered"}
)

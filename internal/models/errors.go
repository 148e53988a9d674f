package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, client-visible classification of a failure.
type ErrorKind string

const (
	KindNotAuthenticated      ErrorKind = "NOT_AUTHENTICATED"
	KindPermissionDenied      ErrorKind = "PERMISSION_DENIED"
	KindOwnershipDenied       ErrorKind = "OWNERSHIP_DENIED"
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindPasswordMismatch      ErrorKind = "PASSWORD_MISMATCH"
	KindInvalidOrExpiredToken ErrorKind = "INVALID_OR_EXPIRED_TOKEN"
	KindInvalidCredentials    ErrorKind = "INVALID_CREDENTIALS"
	KindValidation            ErrorKind = "VALIDATION"
	KindConflict              ErrorKind = "CONFLICT"
	KindCheckoutInProgress    ErrorKind = "CHECKOUT_IN_PROGRESS"
	KindEmptyCart             ErrorKind = "EMPTY_CART"
	KindPaymentFailed         ErrorKind = "PAYMENT_FAILED"
	KindPaymentTimeout        ErrorKind = "PAYMENT_TIMEOUT"
	KindPersistence           ErrorKind = "PERSISTENCE_ERROR"
	KindUnreconciledCharge    ErrorKind = "UNRECONCILED_CHARGE"
)

// AppError carries a Kind through the service layer so handlers can map it
// to a status code without inspecting message text.
type AppError struct {
	Kind    ErrorKind
	Message string
	// ChargeID is only set for KindUnreconciledCharge.
	ChargeID string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same Kind, so that
// errors.Is(err, models.ErrNotFound) matches any not-found error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotAuthenticated      = &AppError{Kind: KindNotAuthenticated, Message: "you must be signed in to do that"}
	ErrPermissionDenied      = &AppError{Kind: KindPermissionDenied, Message: "you do not have permission to do that"}
	ErrOwnershipDenied       = &AppError{Kind: KindOwnershipDenied, Message: "you do not own this resource"}
	ErrNotFound              = &AppError{Kind: KindNotFound, Message: "resource not found"}
	ErrPasswordMismatch      = &AppError{Kind: KindPasswordMismatch, Message: "passwords do not match"}
	ErrInvalidOrExpiredToken = &AppError{Kind: KindInvalidOrExpiredToken, Message: "this reset token is either invalid or expired"}
	ErrInvalidCredentials    = &AppError{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrValidation            = &AppError{Kind: KindValidation, Message: "validation failed"}
	ErrConflict              = &AppError{Kind: KindConflict, Message: "resource already exists"}
	ErrCheckoutInProgress    = &AppError{Kind: KindCheckoutInProgress, Message: "a checkout is already in progress for this user"}
	ErrEmptyCart             = &AppError{Kind: KindEmptyCart, Message: "cart is empty"}
	ErrPaymentFailed         = &AppError{Kind: KindPaymentFailed, Message: "payment failed"}
	ErrPaymentTimeout        = &AppError{Kind: KindPaymentTimeout, Message: "payment gateway timed out"}
	ErrPersistence           = &AppError{Kind: KindPersistence, Message: "persistence error"}
	ErrUnreconciledCharge    = &AppError{Kind: KindUnreconciledCharge, Message: "charge captured but order was not recorded"}
)

// NewError builds an AppError of the given kind.
func NewError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NotFoundf builds a KindNotFound error with a formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// PersistenceErr wraps a storage failure.
func PersistenceErr(message string, err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the Kind of the first AppError in err's chain, or
// KindPersistence for unclassified errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

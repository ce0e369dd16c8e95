// Package apperror defines the failures the API reports to clients and how each one maps
// to an HTTP status. Every response body carries a single human-readable "message".
package apperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation builds an ad-hoc validation failure for malformed input.
func Validation(message string) *Error {
	return New(KindValidation, "InvalidField", message)
}

// Auth
var (
	ErrMissingCredential  = New(KindUnauthorized, "MissingCredential", "Access denied, token missing!")
	ErrInvalidCredential  = New(KindUnauthorized, "InvalidCredential", "Invalid token")
	ErrAccountNotFound    = New(KindUnauthorized, "AccountNotFound", "Unauthorized")
	ErrForbidden          = New(KindForbidden, "Forbidden", "Access denied. Admins only.")
	ErrInvalidCredentials = New(KindValidation, "InvalidCredentials", "Invalid email or password")
)

// Validation
var (
	ErrMissingField     = New(KindValidation, "MissingField", "All fields are required")
	ErrInvalidRole      = New(KindValidation, "InvalidRole", "Role must be one of: user, admin")
	ErrInvalidPolicy    = New(KindValidation, "PolicyNotFound", "Invalid policy ID")
	ErrAmountOutOfRange = New(KindValidation, "AmountOutOfRange", "Claim amount exceeds policy coverage or is invalid")
	ErrClaimDateInvalid = New(KindValidation, "ClaimDateInvalid", "Claim date must be before policy end date")
	ErrInvalidStatus    = New(KindValidation, "InvalidStatus", "Invalid status")
)

// Not found
var (
	ErrPolicyNotFound = New(KindNotFound, "PolicyNotFound", "Policy not found")
	ErrClaimNotFound  = New(KindNotFound, "ClaimNotFound", "Claim not found")
	ErrUserNotFound   = New(KindNotFound, "UserNotFound", "User not found")
	ErrOwnerNotFound  = New(KindNotFound, "OwnerNotFound", "User not found")
)

// Conflict
var (
	ErrEmailTaken          = New(KindConflict, "EmailTaken", "Email already in use")
	ErrAlreadyPurchased    = New(KindConflict, "AlreadyPurchased", "Policy already purchased")
	ErrPolicyHasPurchasers = New(KindConflict, "PolicyHasPurchasers", "Cannot delete policy. Users have purchased this policy.")
	ErrPolicyHasClaims     = New(KindConflict, "PolicyHasClaims", "Cannot delete policy. Claims have been filed against this policy.")
	ErrUserHasClaims       = New(KindConflict, "UserHasClaims", "Cannot delete user. The user has filed claims.")
)

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message hides internal causes from clients.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// Abort writes err as the JSON response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusCode(err), gin.H{"message": Message(err)})
}

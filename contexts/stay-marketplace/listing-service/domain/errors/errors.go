package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the class every field-level ValidationError unwraps to.
	ErrValidation = errors.New("validation failed")

	ErrAccountNotFound = errors.New("account not found")
	ErrListingNotFound = errors.New("listing not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrAmenityNotFound = errors.New("amenity not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenSignature     = errors.New("token signature invalid")
	ErrTokenMalformed     = errors.New("token malformed")

	ErrAdminRequired   = errors.New("admin privileges required")
	ErrNotOwner        = errors.New("caller does not own the resource")
	ErrRestrictedField = errors.New("field may only be changed by an admin")
	ErrForbidden       = errors.New("forbidden")

	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateName   = errors.New("amenity name already exists")
	ErrDuplicateReview = errors.New("listing already reviewed by this account")
	ErrOwnerReview     = errors.New("owners cannot review their own listing")
)

// ValidationError names the first field that violated an entity invariant.
// It matches ErrValidation under errors.Is so callers can branch on the
// class without losing the field detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

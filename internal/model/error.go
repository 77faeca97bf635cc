package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")             // 400
	ErrInsufficientStock   = errors.New("insufficient stock")           // 400
	ErrUnauthorized        = errors.New("unauthorized")                 // 401
	ErrForbidden           = errors.New("forbidden")                    // 403
	ErrNotFound            = errors.New("not found")                    // 404
	ErrConcurrencyConflict = errors.New("concurrent update, try again") // 409
	ErrInvalidTransition   = errors.New("invalid status transition")    // 409
	ErrUpstreamUnavailable = errors.New("upstream unavailable")         // 503
	ErrOutcomeUnknown      = errors.New("purchase outcome unknown")     // 504

	ErrFarmerNotFound   = fmt.Errorf("farmer %w", ErrNotFound)
	ErrCropNotFound     = fmt.Errorf("crop %w", ErrNotFound)
	ErrPurchaseNotFound = fmt.Errorf("purchase %w", ErrNotFound)
)

// FieldError carries per-field validation detail. It matches ErrValidation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Reason }

func (e *FieldError) Is(target error) bool { return target == ErrValidation }

func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// FieldErrors collects every FieldError found in err.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	collectFieldErrors(err, out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func collectFieldErrors(err error, out map[string]string) {
	if err == nil {
		return
	}
	if fe, ok := err.(*FieldError); ok { //nolint:errorlint
		out[fe.Field] = fe.Reason
		return
	}
	switch u := err.(type) { //nolint:errorlint
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			collectFieldErrors(e, out)
		}
	case interface{ Unwrap() error }:
		collectFieldErrors(u.Unwrap(), out)
	}
}

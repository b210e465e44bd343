package usecase

import (
	"errors"
	"fmt"

	"freelance-booking/pkg/utils"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrGateway            = errors.New("payment gateway error")
	ErrGatewayConfig      = errors.New("payment gateway not configured")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrAmountMismatch     = errors.New("payment amount mismatch")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentNotRecorded = errors.New("payment succeeded but could not be recorded")
)

// ValidationError carries field-level messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func fieldError(field, msg string) error {
	return newValidationError(map[string]string{field: msg})
}

// ValidationFields returns the field map of a validation error, or nil.
func ValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

func unauthorized(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

var domainErrors = []error{
	ErrValidation,
	ErrUnauthorized,
	ErrConflict,
	ErrNotFound,
	ErrGateway,
	ErrGatewayConfig,
	ErrVerificationFailed,
	ErrAmountMismatch,
	ErrInvalidTransition,
	ErrPaymentNotRecorded,
}

// isDomainError reports whether err already carries one of the sentinels
// above and can be returned to the caller as is.
func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

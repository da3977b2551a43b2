package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrJobNotFound = fmt.Errorf("%w: generation job", ErrNotFound)

	// Validation errors
	ErrMissingColumns  = errors.New("required columns missing")
	ErrEmptyRoster     = errors.New("roster has no data rows")
	ErrBlankIdentity   = errors.New("row has no usable name or company")
	ErrUnsupportedFile = errors.New("unsupported file type")

	// Rendering errors
	ErrRenderFailed = errors.New("document rendering failed")
	ErrLogoRejected = errors.New("logo rejected")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: %v", ErrMissingColumns, columns)
}

func NewRenderError(kind string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRenderFailed, kind, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrEmptyRoster) ||
		errors.Is(err, ErrBlankIdentity) ||
		errors.Is(err, ErrUnsupportedFile)
}

func IsRenderError(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"performance-core/internal/platforms"
)

// Error classes returned by the services; handlers map them to status codes
var (
	ErrNotFound            = errors.New("resource not found")
	ErrValidation          = errors.New("validation failed")
	ErrNotConnected        = errors.New("integration not connected")
	ErrUnsupportedPlatform = platforms.ErrUnsupportedPlatform
	ErrInvalidState        = errors.New("invalid or expired OAuth state")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstream            = errors.New("platform request failed")
)

// ValidationError carries per-field validation messages. Local errors only
// block the action that produced them.
type ValidationError struct {
	Message string
	Fields  map[string]string
	Local   bool
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationFailed(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

// lookupError turns a repository miss into ErrNotFound and wraps everything else
func lookupError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

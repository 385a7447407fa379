// Package errors provides custom error types for the confkit system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the confkit system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrIncompleteDocument indicates a local-only document misses required fields
	ErrIncompleteDocument = errors.New("incomplete document")

	// ErrDuplicateKey indicates that a key is already used by another resource
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDuplicateID indicates that an id is already used by another resource
	ErrDuplicateID = errors.New("duplicate id")

	// ErrSourceUnavailable indicates that the external source could not be read
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrStoreUnavailable indicates a failure of the underlying document store
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IncompleteDocumentError reports the required fields missing from a
// document that has no canonical value.
type IncompleteDocumentError struct {
	Resource string
	ID       string
	Missing  []string
}

// Error implements the error interface
func (e *IncompleteDocumentError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s is incomplete, missing: %s", e.Resource, e.ID, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s is incomplete, missing: %s", e.Resource, strings.Join(e.Missing, ", "))
}

// Is implements errors.Is support
func (e *IncompleteDocumentError) Is(target error) bool {
	return target == ErrIncompleteDocument || target == ErrInvalidInput
}

// NewIncompleteDocumentError creates a new IncompleteDocumentError
func NewIncompleteDocumentError(resource, id string, missing []string) *IncompleteDocumentError {
	return &IncompleteDocumentError{Resource: resource, ID: id, Missing: missing}
}

// DuplicateKeyError represents a key collision on creation
type DuplicateKeyError struct {
	Resource string
	Key      string
}

// Error implements the error interface
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with key %s already exists", e.Resource, e.Key)
}

// Is implements errors.Is support
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(resource, key string) *DuplicateKeyError {
	return &DuplicateKeyError{Resource: resource, Key: key}
}

// DuplicateIDError represents an insert of an id that already exists
type DuplicateIDError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s with ID %s already exists", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// NewDuplicateIDError creates a new DuplicateIDError
func NewDuplicateIDError(resource, id string) *DuplicateIDError {
	return &DuplicateIDError{Resource: resource, ID: id}
}

// SourceError represents a failure to read the external source
type SourceError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError creates a new SourceError
func NewSourceError(source string, err error) *SourceError {
	return &SourceError{Source: source, Err: err}
}

// StoreError represents an adapter-level failure of the document store
type StoreError struct {
	Operation string // "get", "insert", "update", "list", "delete"
	Resource  string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s of %s: %v", e.Operation, e.Resource, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, resource string, err error) *StoreError {
	return &StoreError{Operation: operation, Resource: resource, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "patch", "delete", "sync"
	Resource  string // "session", "speaker", "category", "format", "sponsor"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsIncomplete checks if an error is an incomplete document error
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncompleteDocument)
}

// IsDuplicateKey checks if an error is a duplicate key error
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsDuplicateID checks if an error is a duplicate id error
func IsDuplicateID(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}

// IsSourceUnavailable checks if an error comes from the external source
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsStoreUnavailable checks if an error comes from the document store
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapStore wraps an adapter error as a StoreError
func WrapStore(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(operation, resource, err)
}

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

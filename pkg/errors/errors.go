package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeStore represents entity store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeIngest represents bulk ingestion errors
	ErrorTypeIngest ErrorType = "ingest"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Store Errors

// ErrUserNotFound is returned when no User matches a lookup key
type ErrUserNotFound struct {
	*BaseError
	UserID string
}

func NewUserNotFound(userID string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("user not found: %s", userID), nil),
		UserID:    userID,
	}
}

// Unwrap exposes the embedded BaseError to errors.As chains
func (e *ErrUserNotFound) Unwrap() error {
	return e.BaseError
}

// ErrProductNotFound is returned when no Product matches a lookup key
type ErrProductNotFound struct {
	*BaseError
	ProductID string
}

func NewProductNotFound(productID string) *ErrProductNotFound {
	return &ErrProductNotFound{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("product not found: %s", productID), nil),
		ProductID: productID,
	}
}

func (e *ErrProductNotFound) Unwrap() error {
	return e.BaseError
}

// ErrStoreQueryFailed is returned when a store query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

func (e *ErrStoreQueryFailed) Unwrap() error {
	return e.BaseError
}

// Ingest Errors

// ErrIngestRecordInvalid is returned when an ingested record is missing
// its identity keys
type ErrIngestRecordInvalid struct {
	*BaseError
	Line int
}

func NewIngestRecordInvalid(line int, reason string) *ErrIngestRecordInvalid {
	return &ErrIngestRecordInvalid{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("invalid record ending at line %d: %s", line, reason), nil),
		Line:      line,
	}
}

func (e *ErrIngestRecordInvalid) Unwrap() error {
	return e.BaseError
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var base *BaseError
	if stderrors.As(err, &base) {
		return base.Type == errType
	}
	return false
}

// IsNotFound reports whether err is a User or Product NotFound condition
func IsNotFound(err error) bool {
	var user *ErrUserNotFound
	var product *ErrProductNotFound
	return stderrors.As(err, &user) || stderrors.As(err, &product)
}

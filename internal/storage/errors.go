package storage

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrStorageInit      ErrorType = "storage_init"
	ErrStorageRead      ErrorType = "storage_read"
	ErrStorageWrite     ErrorType = "storage_write"
	ErrImportFetch      ErrorType = "import_fetch"
	ErrImportInProgress ErrorType = "import_in_progress"
	ErrNotFound         ErrorType = "not_found"
)

// StoreError is returned by every Store operation.
type StoreError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is matches another *StoreError by type, so errors.Is(err, &StoreError{Type: ErrStorageRead})
// works regardless of message.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func NewStoreError(errType ErrorType, message string, cause error) *StoreError {
	return &StoreError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

func NewInitError(message string, cause error) *StoreError {
	return NewStoreError(ErrStorageInit, message, cause)
}

func NewReadError(message string, cause error) *StoreError {
	return NewStoreError(ErrStorageRead, message, cause)
}

func NewWriteError(message string, cause error) *StoreError {
	return NewStoreError(ErrStorageWrite, message, cause)
}

func NewImportFetchError(url string, cause error) *StoreError {
	return NewStoreError(ErrImportFetch, fmt.Sprintf("import from %s failed", url), cause)
}

func NewNotFoundError(id int64) *StoreError {
	return NewStoreError(ErrNotFound, fmt.Sprintf("contact %d not found", id), nil)
}

// IsType reports whether err is a *StoreError of the given type.
func IsType(err error, errType ErrorType) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Type == errType
	}
	return false
}

func (e *StoreError) UserMessage() string {
	switch e.Type {
	case ErrStorageInit:
		return "Could not initialize the contacts table."
	case ErrStorageRead:
		return "Could not load the contact list."
	case ErrStorageWrite:
		return "Could not save changes to the contact."
	case ErrImportFetch:
		return "Could not import from the API. Check the URL or your network."
	case ErrImportInProgress:
		return "An import is already running."
	case ErrNotFound:
		return "Contact not found."
	default:
		return "An unexpected error occurred."
	}
}

// UserMessage converts any error into the text shown on screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.UserMessage()
	}
	return "An unexpected error occurred."
}

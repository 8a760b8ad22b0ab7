package client

import (
	"errors"
	"fmt"
)

// ValidationError reports a request the product service rejected as invalid.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog client: validation failed: %s", e.Message)
}

// NotFoundError reports an operation referencing a nonexistent product.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog client: product %s not found", e.ID)
}

// StorageUnavailableError reports that the product service's backing store is
// unreachable. It is kept distinct from NetworkError because it indicates a
// systemic backend problem rather than a transient request failure, and is
// surfaced to users with dedicated wording.
type StorageUnavailableError struct {
	Message string
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("catalog client: storage unavailable: %s", e.Message)
}

// NetworkError reports a transport-level failure or an unexpected status.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog client: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response that was not valid JSON or did
// not have the expected shape.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("catalog client: malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsStorageUnavailable reports whether err is a StorageUnavailableError.
func IsStorageUnavailable(err error) bool {
	var target *StorageUnavailableError
	return errors.As(err, &target)
}

// Package storage provides atomic artifact writing and advisory file locking
// for ytmanifest export output.
package storage

import (
	"errors"
	"fmt"
)

// ErrLockTimeout indicates a timeout acquiring a file lock.
var ErrLockTimeout = errors.New("storage: lock acquisition timeout")

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s %s: %v\n", storErr.Op, storErr.Entity, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("write", "lock").
	Op string
	// Entity is the artifact kind ("manifest", "thumbnail", "file").
	Entity string
	// ID is the artifact path or name if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

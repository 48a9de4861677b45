package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by every Storage implementation.
var (
	// ErrNotInitialized is returned when no .dictum directory exists.
	ErrNotInitialized = errors.New("not initialized: run 'dictum init' first")

	// ErrAlreadyInitialized is returned by init when the directory already exists.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrDecisionNotFound indicates a referenced decision id is absent.
	ErrDecisionNotFound = errors.New("decision not found")

	// ErrDuplicateID indicates an insert collided with an existing decision id.
	ErrDuplicateID = errors.New("decision id already exists")

	// ErrLinkAlreadyExists indicates the (source, target, kind) triple is taken.
	ErrLinkAlreadyExists = errors.New("link already exists")

	// ErrSelfLink indicates a link whose endpoints are equal.
	ErrSelfLink = errors.New("cannot link a decision to itself")

	// ErrLinkNotFound indicates a delete targeted a link that does not exist.
	ErrLinkNotFound = errors.New("link not found")

	// ErrStorage wraps an underlying storage engine failure.
	ErrStorage = errors.New("storage error")
)

// NotFoundError carries the id that could not be found. It matches
// ErrDecisionNotFound with errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("decision not found: %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrDecisionNotFound
}

// AlreadyInitializedError carries the existing directory. It matches
// ErrAlreadyInitialized with errors.Is.
type AlreadyInitializedError struct {
	Path string
}

func (e *AlreadyInitializedError) Error() string {
	return fmt.Sprintf("already initialized: %s", e.Path)
}

func (e *AlreadyInitializedError) Is(target error) bool {
	return target == ErrAlreadyInitialized
}

// StorageError wraps an engine failure with the operation that hit it.
// It matches ErrStorage and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

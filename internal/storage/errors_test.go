package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("get: %w", &NotFoundError{ID: "d-abc"})

	assert.ErrorIs(t, err, ErrDecisionNotFound)
	assert.NotErrorIs(t, err, ErrLinkNotFound)

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "d-abc", nf.ID)
	assert.Contains(t, err.Error(), "d-abc")
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := &StorageError{Op: "insert decision", Err: cause}

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert decision: disk I/O error", err.Error())
}

func TestAlreadyInitializedError(t *testing.T) {
	err := &AlreadyInitializedError{Path: "/tmp/x/.dictum"}

	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Contains(t, err.Error(), "/tmp/x/.dictum")
}

package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolExhausted is returned when a pool has no free slot left. It is an expected condition
	// and leaves the pool untouched.
	ErrPoolExhausted = errors.New("arena: pool exhausted")

	// ErrFull is returned by the insertion operations when the node pool shared by all lists is exhausted.
	ErrFull = fmt.Errorf("arena: list full: %w", ErrPoolExhausted)

	// ErrInvalidRelease indicates an attempt to return a slot that is out of range or already free.
	ErrInvalidRelease = errors.New("arena: invalid release")
)

// InvalidHandleError indicates that a ListID does not identify a live list of the pool, e.g., the
// list was destroyed, consumed by Concat, or the handle was never issued by this pool.
type InvalidHandleError struct {
	id     ListID
	reason string
}

func (e InvalidHandleError) Error() string {
	return fmt.Sprintf("arena: invalid list handle %s: %s", e.id, e.reason)
}

// NewInvalidHandleErr returns a new InvalidHandleError.
func NewInvalidHandleErr(id ListID, reason string) InvalidHandleError {
	return InvalidHandleError{id: id, reason: reason}
}

// IsInvalidHandleError returns true if an error is InvalidHandleError
func IsInvalidHandleError(err error) bool {
	var e InvalidHandleError
	return errors.As(err, &e)
}

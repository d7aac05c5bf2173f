package proxalloc

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory indicates a reservation could not be satisfied: no
// existing pool had room inside the window, and either the scanner
// produced no address the OS accepted or the unbounded map call failed.
// Check with errors.Is.
var ErrOutOfMemory = errors.New("proxalloc: out of memory")

// RegionFailureError wraps a virtual-memory-query failure other than
// "free memory" encountered mid-scan. Unwrap with errors.As to recover the
// underlying cause.
type RegionFailureError struct {
	Err error
}

func (e *RegionFailureError) Error() string {
	return fmt.Sprintf("proxalloc: region query failed: %v", e.Err)
}

func (e *RegionFailureError) Unwrap() error { return e.Err }

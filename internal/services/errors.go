package services

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable wraps unexpected failures of the underlying store so
// callers can match them with errors.Is while still seeing the cause.
var ErrStoreUnavailable = errors.New("store unavailable")

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

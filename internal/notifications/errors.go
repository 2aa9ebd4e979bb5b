package notifications

import "fmt"

// PersistenceError wraps a store failure. Fatal and surfaced for
// single-target notifications triggered by a direct user action;
// logged and dropped for any one target inside a fan-out.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("notification persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeliveryError wraps a failed push to a live channel or device. Always
// non-fatal: it is logged, never surfaced to the triggering caller.
type DeliveryError struct {
	RecipientID uint
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push delivery to user %d failed: %v", e.RecipientID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ResolutionError wraps a failed relationship lookup. It aborts only
// the fan-out batch that needed it.
type ResolutionError struct {
	UserID uint
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving followers of user %d failed: %v", e.UserID, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

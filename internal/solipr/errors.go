// Package solipr wires the storage, algebra, and rendering layers into a
// single per-repository facade (Engine), and defines the error
// vocabulary the CLI and any embedding host program classify against.
package solipr

import (
	"errors"
	"fmt"
)

// StorageError wraps a failure from the underlying content registry or
// key/value store: disk I/O, corruption, or an unexpected bbolt error.
// It is always a wrapper - Unwrap exposes the underlying cause for
// errors.Is/errors.As.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("solipr: storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError, or returns nil if err is
// nil (so callers can write `return NewStorageError(op, err)`
// unconditionally).
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// PreconditionError reports that a requested operation's precondition
// does not hold in the current repository state (§7): e.g. applying a
// Change whose declared SingleId does not match its content, or asking
// to diff a file against a rendering it was never actually produced
// from.
type PreconditionError struct {
	Op      string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("solipr: precondition: %s: %s", e.Op, e.Message)
}

// NewPreconditionError builds a PreconditionError.
func NewPreconditionError(op, message string) error {
	return &PreconditionError{Op: op, Message: message}
}

// ContentNotFoundError reports that a ContentHash referenced by a facet
// head has no corresponding blob in the registry (§4.1 Fails with:
// NotFound). No function in this module returns it, and it carries no
// hash: Engine.Render reports a missing blob as a StorageError whose
// cause wraps registry.ErrNotFound.
type ContentNotFoundError struct {
	Op string
}

func (e *ContentNotFoundError) Error() string {
	return fmt.Sprintf("solipr: content not found: %s", e.Op)
}

// CycleUnresolvedError reports that an edited file still contains a
// well-formed CYCLE region and cannot be diffed back into Changes until
// it is broken by hand (§4.6.3, §9).
type CycleUnresolvedError struct {
	File string
}

func (e *CycleUnresolvedError) Error() string {
	return fmt.Sprintf("solipr: cycle unresolved in %s", e.File)
}

// IsPrecondition reports whether err is, or wraps, a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// IsCycleUnresolved reports whether err is, or wraps, a
// CycleUnresolvedError.
func IsCycleUnresolved(err error) bool {
	var ce *CycleUnresolvedError
	return errors.As(err, &ce)
}

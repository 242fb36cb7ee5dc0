package migrate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSteps is returned by NewEngine for a malformed step list.
	ErrInvalidSteps = errors.New("migrate: invalid steps")

	// ErrNotApplied is returned when Apply succeeds but IsApplied still
	// reports the patch as missing.
	ErrNotApplied = errors.New("migrate: patch is not applied after Apply")
)

// PatchError is returned when a patch cannot be checked or applied. It
// stops the run.
type PatchError struct {
	Name    string
	Version int
	Err     error
}

// Error returns the error string.
func (e *PatchError) Error() string {
	return fmt.Sprintf("migrate: patch %s (version %d): %v", e.Name, e.Version, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// NewPatchError returns a new PatchError.
func NewPatchError(name string, version int, err error) *PatchError {
	return &PatchError{Name: name, Version: version, Err: err}
}

// IsPatchError returns true if the error is a PatchError.
func IsPatchError(err error) bool {
	if err == nil {
		return false
	}
	var e *PatchError
	return errors.As(err, &e)
}

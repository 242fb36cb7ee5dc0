package plandb

import (
	"errors"
	"fmt"
)

// Standard sentinel errors.
var (
	// ErrNotReady is returned by operations that need a database on which
	// setup has completed.
	ErrNotReady = errors.New("plandb: database is not ready")

	// ErrSetupStarted is returned when Setup runs on a database that is
	// being set up or is already open.
	ErrSetupStarted = errors.New("plandb: setup already started")
)

// Setup stages, in the order they run.
const (
	StageCreate  = "create tables"
	StagePatch   = "apply patches"
	StageVerify  = "verify schema"
	StageCookies = "load cookies"
)

// SetupError is returned when a stage of Setup fails.
type SetupError struct {
	Stage string
	Err   error
}

// Error returns the error string.
func (e *SetupError) Error() string {
	return fmt.Sprintf("plandb: setup failed to %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *SetupError) Unwrap() error {
	return e.Err
}

// NewSetupError returns a new SetupError for the given stage.
func NewSetupError(stage string, err error) *SetupError {
	return &SetupError{Stage: stage, Err: err}
}

// IsSetupError returns true if the error is a SetupError.
func IsSetupError(err error) bool {
	if err == nil {
		return false
	}
	var e *SetupError
	return errors.As(err, &e)
}

// IsNotReady returns true if the error reports a database that is not ready.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

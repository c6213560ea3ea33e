package baserepo

import (
	"errors"
	"fmt"
)

// ExecError reports an engine failure for one repository operation. The
// operation still returns its empty value alongside the error.
type ExecError struct {
	Table string
	Op    string
	Err   error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Table, e.Op, e.Err)
}

// Unwrap returns the engine error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsExecError reports whether err came from an engine failure.
func IsExecError(err error) bool {
	var ee *ExecError
	return errors.As(err, &ee)
}

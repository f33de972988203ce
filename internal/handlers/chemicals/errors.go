package chemicals

import (
	"errors"

	"chem_inventory/internal/config"
)

// WorkflowError classifies a fatal workflow failure so the HTTP layer
// can attach a machine-readable kind to the error response.
type WorkflowError struct {
	Kind string // one of the config.ErrKind* values
	Err  error
}

func (e *WorkflowError) Error() string {
	return e.Err.Error()
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// ErrorKind extracts the error kind, defaulting to persistence
func ErrorKind(err error) string {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return config.ErrKindPersistence
}

package ledger

import (
	"errors"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/storage"
	"github.com/pocketledger/pocketledger/internal/validation"
)

// Error codes surfaced to the presentation layer.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidFilter    = "INVALID_FORMAT"
	CodeAccountInactive  = "ACCOUNT_INACTIVE"
	CodeStorageFailure   = "STORAGE_FAILURE"
)

// CommandError is the structured error envelope returned at the service
// boundary: a human-readable message, a machine-readable code, and optional
// per-field details.
type CommandError struct {
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// validationError wraps a failed validation result. Validation failures
// never reach the connection manager.
func validationError(result validation.Result) error {
	return &CommandError{
		Message: "validation failed",
		Code:    CodeValidationFailed,
		Details: result.FieldErrors(),
	}
}

// storageError classifies an error bubbling up from the storage layer.
func storageError(msg string, err error) error {
	code := CodeStorageFailure
	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, storage.ErrInvalidSortField), errors.Is(err, storage.ErrInvalidSortDir):
		code = CodeInvalidFilter
	}
	return &CommandError{Message: msg, Code: code, Err: err}
}

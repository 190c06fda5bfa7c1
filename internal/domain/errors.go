package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid policy input")
	ErrEmptyInput          = errors.New("policy content is empty")
	ErrContentTooShort     = errors.New("policy content is too short")
	ErrMissingCompanyName  = errors.New("company name is required")
	ErrInvalidChunkSize    = errors.New("max chunk size is out of range")
	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed    = errors.New("no text could be extracted from document")
	ErrUnsupportedExport   = errors.New("unsupported export format")
)

// InputError reports a document that cannot be analyzed. It is the only
// pipeline error that fails a run, and it is raised before any reasoning call.
type InputError struct {
	Reason error
	Detail string
}

func (e *InputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid input: %v", e.Reason)
	}
	return fmt.Sprintf("invalid input: %v: %s", e.Reason, e.Detail)
}

func (e *InputError) Unwrap() error {
	return e.Reason
}

// Is lets errors.Is(err, ErrInvalidInput) match every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError wraps a sentinel reason into an InputError.
func NewInputError(reason error, detail string) *InputError {
	return &InputError{Reason: reason, Detail: detail}
}

package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNilKey             = errors.New("nil key")
	ErrInvalidBucketCount = errors.New("invalid bucket count")
	ErrInvalidFillFactor  = errors.New("invalid fill factor")
	ErrRehashIntegrity    = errors.New("rehash lost entries")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrTimeout            = errors.New("operation timed out")
)

// Exit codes returned by the command-line tools.
const (
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitUnavailable  = 3
)

type AppError struct {
	Err     error
	Op      string
	Message string
}

func (e *AppError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, op string, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Op:      op,
		Message: message,
	}
}

func Newf(sentinel error, op string, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidBucketCount),
		errors.Is(err, ErrInvalidFillFactor):
		return ExitInvalidInput
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrTimeout):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}

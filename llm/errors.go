package llm

import "errors"

// Every request failure is classified before the retry loop decides
// what to do with it: transient failures (network faults, rate limits,
// 5xx responses) are retried with backoff, fatal ones (auth failures,
// malformed requests) abort immediately. Classification travels as a
// wrapping error type so it survives further %w wrapping.

// TransientError marks a failure worth retrying.
type TransientError struct {
	cause error
}

// NewTransientError classifies err as retryable.
func NewTransientError(err error) error {
	return &TransientError{cause: err}
}

func (e *TransientError) Error() string { return e.cause.Error() }
func (e *TransientError) Unwrap() error { return e.cause }

// FatalError marks a failure retrying cannot fix.
type FatalError struct {
	cause error
}

// NewFatalError classifies err as non-retryable.
func NewFatalError(err error) error {
	return &FatalError{cause: err}
}

func (e *FatalError) Error() string { return e.cause.Error() }
func (e *FatalError) Unwrap() error { return e.cause }

// IsTransient reports whether err carries a transient classification
// anywhere in its chain.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal reports whether err carries a fatal classification anywhere
// in its chain.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

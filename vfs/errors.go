package vfs

import "errors"

var (
	// ErrNotFound indicates the target path does not resolve to any
	// resource of the requested kind.
	ErrNotFound = errors.New("not found")

	// ErrIO indicates the underlying storage operation failed for any
	// other reason: permission, storage fault, exhaustion.
	ErrIO = errors.New("io error")
)

// wrapError pairs one of the package sentinels with a diagnostic message
// and the backend's underlying cause. errors.Is matches both the
// sentinel and the cause.
type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

// NewNotFound returns an error matching ErrNotFound that carries msg and
// the underlying cause.
func NewNotFound(msg string, cause error) error {
	return &wrapError{
		underlying: ErrNotFound,
		msg:        msg,
		cause:      cause,
	}
}

// NewIOError returns an error matching ErrIO that carries msg and the
// underlying cause.
func NewIOError(msg string, cause error) error {
	return &wrapError{
		underlying: ErrIO,
		msg:        msg,
		cause:      cause,
	}
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}

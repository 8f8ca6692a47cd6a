package apperror

import (
	"errors"
	"net/http"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int               // HTTP Status Code (e.g., 400, 404)
	Message string            // User-facing error message
	Fields  map[string]string // Per-field explanations, rendered as "errors"
	Err     error             // The underlying error, if any (not exposed to user)

	origin *AppError // the error created by New or Wrap this one was derived from
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError derived from the same New or Wrap call, so
// copies made by WithFields or Because still satisfy errors.Is against their
// sentinel. Sentinels of different packages never match each other, even
// when they share a code and message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// WithFields returns a copy of the error carrying per-field explanations.
// The receiver is left untouched so package-level sentinels stay immutable.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	cp := *e
	cp.origin = e.root()
	cp.Fields = make(map[string]string, len(fields))
	for k, v := range fields {
		cp.Fields[k] = v
	}
	return &cp
}

// Because returns a copy of the error carrying err as its hidden cause.
func (e *AppError) Because(err error) *AppError {
	cp := *e
	cp.origin = e.root()
	cp.Err = err
	return &cp
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Internal wraps a store or infrastructure failure. The cause is kept for
// logging and never rendered to the client.
func Internal(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, "internal server error")
}

// IsInternal reports whether err is an AppError with a 5xx status.
func IsInternal(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code >= http.StatusInternalServerError
}

// Classify returns err unchanged when it carries an AppError and wraps it as
// an internal error otherwise.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Internal(err)
}

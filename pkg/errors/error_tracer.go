package errors

import "github.com/pkg/errors"

// ErrorTracer carries a message and the underlying error with its stack trace.
type ErrorTracer struct {
	Message string
	Err     error
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving the stack trace.
// A nil error yields a nil tracer.
func TracerFromError(err error) error {
	if err == nil {
		return nil
	}
	return NewTracer(err.Error()).Wrap(err)
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap wraps an existing error into the ErrorTracer, attaching a stack trace if it has none.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTrace returns the stack trace of the underlying error if it implements StackTracer.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if errWithStack, ok := e.Unwrap().(StackTracer); ok {
		return errWithStack.StackTrace()
	}
	return nil
}

package errors

import "github.com/pkg/errors"

// ErrorTracer carries a message and the underlying error with its stack trace.
type ErrorTracer struct {
	Message string
	Err     error
}

// StackTracer is implemented by errors that carry a github.com/pkg/errors stack.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError creates a new ErrorTracer from err, keeping err's message.
// A nil err yields nil.
func TracerFromError(err error) *ErrorTracer {
	if err == nil {
		return nil
	}
	return NewTracer(err.Error()).Wrap(err)
}

// Wrap sets err as the underlying error, attaching a stack trace when err has none.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	if _, ok := err.(StackTracer); ok {
		e.Err = err
	} else {
		e.Err = errors.WithStack(err)
	}
	return e
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// StackTrace returns the stack trace of the underlying error, if any.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if st, ok := e.Err.(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

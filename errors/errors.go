// Package errors gives ezauth's failures a gRPC status code, an HTTP status
// and a message that is safe to show clients, alongside a stack trace for
// logs. It started life as a fork of `github.com/go-errors/errors`.
//
// Failures are created by marking a sentinel where they happen and appending
// the diagnostic:
//
//	var ErrVerification = errors.NewC("token verification failed", codes.Unauthenticated)
//
//	func verify() error {
//	    return errors.Mark(ErrVerification, 0).Append("signature is invalid")
//	}
//
// Marked copies still match the sentinel with the standard library's
// errors.Is, and transports map the attached codes onto their responses with
// Code, HTTPStatusCode and PublicMessage.
package errors

import (
	baseErrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// The maximum number of stackframes on any error.
var MaxStackDepth = 50

// Error is an error with an attached stacktrace and response metadata.
type Error struct {
	Err    error
	stack  []uintptr
	frames []StackFrame

	// Diagnostic appended after the underlying message.
	suffix string

	// gRPC status code to associate with an error response.
	code codes.Code

	// Error message to return to clients instead of Error().
	publicMessage string
}

// New makes an Error from the given value with codes.Unknown. If that value is
// already an error then it will be used directly, if not, it will be passed to
// fmt.Errorf("%v"). The stacktrace will point to the line of code that called
// New.
func New(e interface{}) *Error {
	stack := make([]uintptr, MaxStackDepth)
	length := runtime.Callers(2, stack)
	return &Error{Err: toError(e), stack: stack[:length], code: codes.Unknown}
}

// NewC makes an Error with a status code defined.
func NewC(e interface{}, code codes.Code) *Error {
	stack := make([]uintptr, MaxStackDepth)
	length := runtime.Callers(2, stack)
	return &Error{Err: toError(e), stack: stack[:length], code: code}
}

// Errorf creates a new error with the given message. You can use it
// as a drop-in replacement for fmt.Errorf() to provide descriptive
// errors in return values.
func Errorf(format string, a ...interface{}) *Error {
	return Wrap(fmt.Errorf(format, a...), 1)
}

// Wrap makes an Error from the given value, leaving an existing *Error as it
// is. The skip parameter indicates how far up the stack to start the
// stacktrace. 0 is from the current call, 1 from its caller, etc.
func Wrap(e interface{}, skip int) *Error {
	if e == nil {
		return nil
	}
	if err, ok := e.(*Error); ok {
		return err
	}
	stack := make([]uintptr, MaxStackDepth)
	length := runtime.Callers(2+skip, stack)
	return &Error{Err: toError(e), stack: stack[:length], code: codes.Unknown}
}

// Mark returns a copy of the error with its stack trace set from the point
// Mark was called. Marking a sentinel never mutates it, and the copy still
// matches the sentinel. The skip parameter works as it does for Wrap.
func Mark(e interface{}, skip int) *Error {
	if e == nil {
		return nil
	}
	err, ok := e.(*Error)
	if !ok {
		return Wrap(e, 1+skip)
	}
	stack := make([]uintptr, MaxStackDepth)
	length := runtime.Callers(2+skip, stack)
	c := *err
	c.stack = stack[:length]
	c.frames = nil
	return &c
}

func toError(e interface{}) error {
	if err, ok := e.(error); ok {
		return err
	}
	return fmt.Errorf("%v", e)
}

// Error returns the underlying error's message followed by any appended
// diagnostic.
func (err *Error) Error() string {
	if err.suffix == "" {
		return err.Err.Error()
	}
	return err.Err.Error() + ": " + err.suffix
}

// Append adds a diagnostic to the end of the error message. The public message
// is unaffected.
func (err *Error) Append(msg string) *Error {
	if err.suffix == "" {
		err.suffix = msg
	} else {
		err.suffix = err.suffix + ": " + msg
	}
	return err
}

// Is reports whether target is this error, or an Error wrapping the same
// underlying value. This keeps marked copies of a sentinel comparable with the
// standard library's errors.Is.
func (err *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return err == t || err.Err == t.Err
	}
	return false
}

// Unwrap the error (implements api for As function).
func (err *Error) Unwrap() error {
	return err.Err
}

// StackFrames returns the frames of the stack trace, innermost first.
// Inlined calls are reported as their own frames.
func (err *Error) StackFrames() []StackFrame {
	if err.frames == nil {
		err.frames = make([]StackFrame, 0, len(err.stack))
		frames := runtime.CallersFrames(err.stack)
		for {
			f, more := frames.Next()
			if f.PC != 0 {
				err.frames = append(err.frames, newStackFrame(f))
			}
			if !more {
				break
			}
		}
	}
	return err.frames
}

// MinimalStack returns up to size frames, starting at skip, formatted as
// "file:line" strings. Intended for structured log fields.
func (err *Error) MinimalStack(skip, size int) []string {
	frames := err.StackFrames()
	var out []string
	for i := skip; i < len(frames) && len(out) < size; i++ {
		out = append(out, fmt.Sprintf("%s:%d", frames[i].File, frames[i].LineNumber))
	}
	return out
}

// TypeName returns the type of the underlying error, e.g. *errors.errorString.
func (err *Error) TypeName() string {
	return reflect.TypeOf(err.Err).String()
}

// Code returns the gRPC status code associated with the error.
func (err *Error) Code() codes.Code {
	return err.code
}

// HTTPStatusCode maps the gRPC code to the HTTP status that should be returned
// to the client.
func (err *Error) HTTPStatusCode() int {
	switch err.code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the error string that should be returned to the client.
func (err *Error) PublicMessage() string {
	if err.publicMessage != "" {
		return err.publicMessage
	}
	return err.Error()
}

// WithPublicMessage sets the error string that should be returned to the
// client, hiding diagnostics added with Append.
func (err *Error) WithPublicMessage(publicMessage string) *Error {
	err.publicMessage = publicMessage
	return err
}

// GRPCStatus returns a gRPC status object for the error.
func (err *Error) GRPCStatus() *status.Status {
	return status.New(err.Code(), err.PublicMessage())
}

// As finds the first error in err's tree that matches target. Delegates to
// the standard library.
func As(err error, target any) bool {
	return baseErrors.As(err, target)
}

// Code returns a gRPC status code for an error. If the error is nil, it returns
// codes.OK. If error exposes a `Code()` method, it is returned. Otherwise
// codes.Unknown is returned.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var e codedError
	if As(err, &e) {
		return e.Code()
	}
	return codes.Unknown
}

// HTTPStatusCode returns an HTTP status code for an error. If the error is nil,
// it returns http.StatusOK. If error exposes a `HTTPStatusCode()` method, it is
// returned. Otherwise http.StatusInternalServerError is returned.
func HTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e httpError
	if As(err, &e) {
		return e.HTTPStatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that is safe to show a client. Errors that
// don't carry one are reported with their http status text.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e publicError
	if As(err, &e) {
		return e.PublicMessage()
	}
	return http.StatusText(HTTPStatusCode(err))
}

type codedError interface {
	Code() codes.Code
}

type httpError interface {
	HTTPStatusCode() int
}

type publicError interface {
	PublicMessage() string
}

package api

import "github.com/cockroachdb/errors"

type ErrorCode string

const DefaultErrorCode = ErrorCode("unknown_error")

// Error pairs an internal error with the code and message that go out to
// the API consumer. The internal chain never leaks past the gateway.
type Error struct {
	ErrorCode   ErrorCode
	UserMessage string
	wrapped     error
}

func (e *Error) Error() string {
	if e.wrapped == nil {
		return e.UserMessage
	}

	return e.wrapped.Error()
}

// CommitError pins an error chain to its externally visible code and
// message. Once committed, further wraps only add internal context.
func CommitError(err error, errorCode ErrorCode, userMessage string) *Error {
	return &Error{
		ErrorCode:   errorCode,
		UserMessage: userMessage,
		wrapped:     err,
	}
}

func WrapError(apiError *Error, msg string) *Error {
	return &Error{
		ErrorCode:   apiError.ErrorCode,
		UserMessage: apiError.UserMessage,
		wrapped:     errors.Wrap(apiError.wrapped, msg),
	}
}

package cerr

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F map[string]any

func Error(msg string) error {
	return ErrorContext{}.Error(msg)
}

func Wrap(err error) ErrorContext {
	return ErrorContext{}.Wrap(err)
}

func Field(key string, value any) ErrorContext {
	return ErrorContext{}.Field(key, value)
}

func Fields(fields F) ErrorContext {
	return ErrorContext{}.Fields(fields)
}

type ErrorContext struct {
	fields  F
	wrapped error
}

func (e ErrorContext) Field(key string, value any) ErrorContext {
	newFields := F{}
	for k, v := range e.fields {
		newFields[k] = v
	}
	newFields[key] = value

	return ErrorContext{
		fields:  newFields,
		wrapped: e.wrapped,
	}
}

func (e ErrorContext) Fields(fields F) ErrorContext {
	newContext := e
	for key, value := range fields {
		newContext = newContext.Field(key, value)
	}

	return newContext
}

func (e ErrorContext) Wrap(err error) ErrorContext {
	return ErrorContext{
		fields:  e.fields,
		wrapped: err,
	}
}

func (e ErrorContext) Error(msg string) error {
	var err error
	if e.wrapped != nil {
		err = errors.Wrap(e.wrapped, msg)
	} else {
		err = errors.New(msg)
	}

	if len(e.fields) == 0 {
		return err
	}

	return fieldsError{
		fields: e.fields,
		err:    err,
	}
}

var _ error = fieldsError{}

type fieldsError struct {
	fields F
	err    error
}

func (f fieldsError) Error() string {
	return f.err.Error()
}

func (f fieldsError) Unwrap() error {
	return f.err
}

// Log reports the error and every field attached along the wrap chain.
func Log(err error) {
	logger := log.Log

	for unwrapped := err; unwrapped != nil; unwrapped = errors.UnwrapOnce(unwrapped) {
		if withFields, ok := unwrapped.(fieldsError); ok {
			logger = logger.WithFields(log.Fields(withFields.fields))
		}
	}

	logger.Error(err.Error())
}

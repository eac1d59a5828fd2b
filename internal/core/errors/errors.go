// Package errors defines the coded errors shared by the linter's parser,
// runner, baseline store and configuration layers.
package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	// CodeNotFound: a path, config file or baseline run does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeValidationError: bad configuration, flag value or exclude pattern.
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	// CodeNotSupported: the file is not Python source.
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"
	// CodeSyntaxError: the file parsed with errors; the rule is not run on it.
	CodeSyntaxError ErrorCode = "SYNTAX_ERROR"
	// CodeMalformedInput marks a tree shape the rule does not model. It is
	// raised as a panic, never returned.
	CodeMalformedInput ErrorCode = "MALFORMED_INPUT"
)

// DomainError carries a code and the source position or option it refers to.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath     = "path"
	CtxLine     = "line"
	CtxColumn   = "column"
	CtxNodeKind = "node_kind"
	CtxOption   = "option"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// AddContext attaches a key/value pair, promoting plain errors to INTERNAL_ERROR.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Position returns the line and column recorded on err, if any.
func Position(err error) (line, column int, ok bool) {
	var de *DomainError
	if !errors.As(err, &de) {
		return 0, 0, false
	}
	line, ok = de.Context[CtxLine].(int)
	column, _ = de.Context[CtxColumn].(int)
	return line, column, ok
}

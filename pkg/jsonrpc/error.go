package jsonrpc

import (
	"errors"
	"fmt"
)

// CodeMethodNotFound is the JSON-RPC 2.0 code for a method that does not exist or is not available.
const CodeMethodNotFound = -32601

var errInvalidUTF8 = errors.New("request body is not valid UTF-8")

// MalformedBodyError means the request body could not be read as text.
type MalformedBodyError struct {
	Err error
}

func (e *MalformedBodyError) Error() string {
	return e.Err.Error()
}

func (e *MalformedBodyError) Unwrap() error {
	return e.Err
}

// MalformedJSONError carries the parser message for a body that is not a single JSON value.
type MalformedJSONError struct {
	Err error
}

func (e *MalformedJSONError) Error() string {
	return e.Err.Error()
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError is returned when a required envelope field is missing
// or has the wrong JSON type.
type InvalidArgumentError struct {
	Argument string
	Expected string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%q is not a %s", e.Argument, e.Expected)
}

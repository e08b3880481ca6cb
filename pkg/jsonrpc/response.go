package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol tag carried by every response.
const Version = "2.0"

var nullResult = json.RawMessage("null")

// Response is a reply envelope. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the structured error object of a response envelope.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// NewResultResponse wraps an opaque result. A nil result is encoded as null.
func NewResultResponse(id ID, result json.RawMessage) Response {
	if len(result) == 0 {
		result = nullResult
	}
	return Response{JSONRPC: Version, ID: id, Result: result}
}

// NewErrorResponse wraps a structured error.
func NewErrorResponse(id ID, rpcErr *Error) Response {
	return Response{JSONRPC: Version, ID: id, Error: rpcErr}
}

// MethodNotFound is the error returned for methods the proxy does not expose.
func MethodNotFound(method string) *Error {
	return &Error{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("the method %s does not exist/is not available", method),
	}
}

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// Request is a decoded call envelope.
type Request struct {
	Method string
	ID     ID
	// Params holds the elements of the params array. It is nil when params is
	// absent or not an array; the call is then forwarded without arguments.
	Params []json.RawMessage
}

// Param returns the i-th parameter, or nil when there are fewer parameters.
func (r Request) Param(i int) json.RawMessage {
	if i < 0 || i >= len(r.Params) {
		return nil
	}
	return r.Params[i]
}

// DecodeRequest decodes a request body. It fails with *MalformedBodyError,
// *MalformedJSONError or *InvalidArgumentError, checked in that order.
func DecodeRequest(body []byte) (Request, error) {
	if !utf8.Valid(body) {
		return Request{}, &MalformedBodyError{Err: errInvalidUTF8}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, &MalformedJSONError{Err: err}
	}

	// Valid JSON that is not an object has no fields; the method check below reports it.
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(raw, &fields)

	var req Request
	if err := json.Unmarshal(fields["method"], &req.Method); err != nil || !isJSONString(fields["method"]) {
		return Request{}, &InvalidArgumentError{Argument: "method", Expected: "string"}
	}

	if err := json.Unmarshal(fields["id"], &req.ID); err != nil {
		return Request{}, &InvalidArgumentError{Argument: "id", Expected: "number or string"}
	}

	if params := bytes.TrimSpace(fields["params"]); len(params) > 0 && params[0] == '[' {
		if err := json.Unmarshal(params, &req.Params); err != nil {
			req.Params = nil
		}
	}

	return req, nil
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

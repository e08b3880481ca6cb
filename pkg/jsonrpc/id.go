package jsonrpc

import (
	"bytes"
	"encoding/json"
	"strconv"
)

var nullID = []byte("null")

// ID is the caller's correlation identifier. It keeps the raw JSON the caller
// sent so the response echoes both its value and its type.
type ID struct {
	raw json.RawMessage
}

// NewNumericID returns an ID that encodes as a JSON number.
func NewNumericID(n uint64) ID {
	return ID{raw: json.RawMessage(strconv.FormatUint(n, 10))}
}

// NewStringID returns an ID that encodes as a JSON string.
func NewStringID(s string) ID {
	raw, _ := json.Marshal(s)
	return ID{raw: raw}
}

// parseID accepts a JSON string or a JSON integer in the uint64 range.
func parseID(raw json.RawMessage) (ID, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ID{}, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ID{}, false
		}
		return ID{raw: raw}, true
	default:
		// ParseUint rejects signs, fractions and exponents.
		if _, err := strconv.ParseUint(string(raw), 10, 64); err != nil {
			return ID{}, false
		}
		return ID{raw: raw}, true
	}
}

// IsString reports whether the ID was sent as a JSON string.
func (id ID) IsString() bool {
	return len(id.raw) > 0 && id.raw[0] == '"'
}

// String returns the ID as it appears on the wire.
func (id ID) String() string {
	if len(id.raw) == 0 {
		return string(nullID)
	}
	return string(id.raw)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return nullID, nil
	}
	return id.raw, nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	parsed, ok := parseID(data)
	if !ok {
		return &InvalidArgumentError{Argument: "id", Expected: "number or string"}
	}
	*id = parsed
	return nil
}

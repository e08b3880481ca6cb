package upstream

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
)

// Kind classifies the result of a forwarded call.
type Kind int

const (
	// KindSuccess means the upstream returned a result value.
	KindSuccess Kind = iota
	// KindRPCFault means the upstream answered with a structured JSON-RPC error.
	KindRPCFault
	// KindTransportFailure means no usable answer was obtained: connection,
	// HTTP status, timeout or decoding problems.
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindRPCFault:
		return "rpc_fault"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one upstream call.
type Outcome struct {
	Kind   Kind
	Result json.RawMessage
	Fault  *jsonrpc.Error
	Err    error
}

func Success(result json.RawMessage) Outcome {
	return Outcome{Kind: KindSuccess, Result: result}
}

func Fault(code int, message string, data json.RawMessage) Outcome {
	return Outcome{Kind: KindRPCFault, Fault: &jsonrpc.Error{Code: code, Message: message, Data: data}}
}

func TransportFailure(err error) Outcome {
	return Outcome{Kind: KindTransportFailure, Err: err}
}

// Classify turns the result of an rpc.Client call into an Outcome. Errors that
// carry a JSON-RPC error code are faults reported by the node; every other
// error is a transport failure.
func Classify(result json.RawMessage, err error) Outcome {
	if err == nil {
		return Success(result)
	}

	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return TransportFailure(err)
	}

	// rpc.Client hands data over already decoded into an any, so this is a
	// re-encoding: numbers pass through float64 and object keys come back sorted.
	var data json.RawMessage
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		if raw, mErr := json.Marshal(dataErr.ErrorData()); mErr == nil {
			data = raw
		}
	}

	return Fault(rpcErr.ErrorCode(), rpcErr.Error(), data)
}

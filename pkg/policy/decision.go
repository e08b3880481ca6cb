package policy

import (
	"fmt"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
)

// Decision is the result of evaluating a call against the policy.
// It is computed per request and never stored.
type Decision struct {
	Allowed bool
	// Rule names the rule that produced a rejection.
	Rule string
	// Status is the HTTP status of a plain-text rejection.
	Status int
	// Message is the human readable reason of a rejection.
	Message string
	// RPCError, when set, is returned to the caller inside a JSON-RPC error
	// envelope instead of a plain-text body. Status is ignored in that case.
	RPCError *jsonrpc.Error
}

// Allow lets the call through.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Reject refuses the call with a plain-text body and the given HTTP status.
func Reject(rule string, status int, format string, args ...any) Decision {
	return Decision{Rule: rule, Status: status, Message: fmt.Sprintf(format, args...)}
}

// Deny refuses the call with a JSON-RPC error envelope.
func Deny(rule string, rpcErr *jsonrpc.Error) Decision {
	return Decision{Rule: rule, Message: rpcErr.Message, RPCError: rpcErr}
}

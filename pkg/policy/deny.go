package policy

import (
	"context"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
)

// DenyRuleName is the metrics and log name of DenyRule.
const DenyRuleName = "deny"

// DenyRule refuses every call, whatever its params, as if the method did not exist.
type DenyRule struct{}

func (DenyRule) Name() string { return DenyRuleName }

func (DenyRule) Evaluate(_ context.Context, req jsonrpc.Request) Decision {
	return Deny(DenyRuleName, jsonrpc.MethodNotFound(req.Method))
}

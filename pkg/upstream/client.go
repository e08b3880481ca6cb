package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// HeadReader reads the current head block number of the upstream chain.
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client forwards calls to the upstream node. Implementations must be safe
// for concurrent use by many in-flight requests.
type Client interface {
	HeadReader
	// Call executes method with params passed through unchanged.
	Call(ctx context.Context, method string, params []json.RawMessage) Outcome
}

var _ Client = (*RPCClient)(nil)

// RPCClient is the production Client backed by go-ethereum's rpc.Client,
// which manages its own connections and is safe for concurrent use.
type RPCClient struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial connects to the upstream endpoint (http, https, ws, wss or an IPC path).
// For HTTP endpoints no request is made until the first call.
func Dial(ctx context.Context, endpoint string) (*RPCClient, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial upstream %s: %w", endpoint, err)
	}
	return NewRPCClient(c), nil
}

func NewRPCClient(c *rpc.Client) *RPCClient {
	return &RPCClient{
		rpc: c,
		eth: ethclient.NewClient(c),
	}
}

func (c *RPCClient) Call(ctx context.Context, method string, params []json.RawMessage) Outcome {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}

	var result json.RawMessage
	err := c.rpc.CallContext(ctx, &result, method, args...)
	return Classify(result, err)
}

func (c *RPCClient) BlockNumber(ctx context.Context) (uint64, error) {
	return c.eth.BlockNumber(ctx)
}

// ChainID returns the chain id reported by the upstream.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}

func (c *RPCClient) Close() {
	c.rpc.Close()
}

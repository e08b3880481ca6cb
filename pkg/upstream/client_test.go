package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nodeRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode is a JSON-RPC node answering through reply. It records every request.
type fakeNode struct {
	mu       sync.Mutex
	requests []nodeRequest
	reply    func(req nodeRequest) string
}

func newFakeNode(t *testing.T, reply func(req nodeRequest) string) (*fakeNode, *httptest.Server) {
	t.Helper()
	node := &fakeNode{reply: reply}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		node.mu.Lock()
		node.requests = append(node.requests, req)
		node.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,` + node.reply(req) + `}`))
	}))
	t.Cleanup(srv.Close)
	return node, srv
}

func (n *fakeNode) Requests() []nodeRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]nodeRequest(nil), n.requests...)
}

func dialTest(t *testing.T, url string) *RPCClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestRPCClientCallSuccess(t *testing.T) {
	node, srv := newFakeNode(t, func(nodeRequest) string {
		return `"result":{"balance":"0x10","nested":[1,2]}`
	})
	c := dialTest(t, srv.URL)

	params := []json.RawMessage{json.RawMessage(`"0xabc"`), json.RawMessage(`{"blockNumber":"latest","x":[1,true,null]}`)}
	outcome := c.Call(context.Background(), "eth_getBalance", params)

	require.Equal(t, KindSuccess, outcome.Kind)
	assert.JSONEq(t, `{"balance":"0x10","nested":[1,2]}`, string(outcome.Result))

	reqs := node.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "eth_getBalance", reqs[0].Method)
	require.Len(t, reqs[0].Params, 2)
	assert.JSONEq(t, `"0xabc"`, string(reqs[0].Params[0]))
	assert.JSONEq(t, `{"blockNumber":"latest","x":[1,true,null]}`, string(reqs[0].Params[1]))
}

func TestRPCClientCallNullResult(t *testing.T) {
	_, srv := newFakeNode(t, func(nodeRequest) string { return `"result":null` })
	c := dialTest(t, srv.URL)

	outcome := c.Call(context.Background(), "eth_getTransactionReceipt", []json.RawMessage{json.RawMessage(`"0x01"`)})
	require.Equal(t, KindSuccess, outcome.Kind)
	assert.Equal(t, "null", string(outcome.Result))
}

func TestRPCClientCallFault(t *testing.T) {
	_, srv := newFakeNode(t, func(nodeRequest) string {
		return `"error":{"code":3,"message":"execution reverted","data":"0x08c379a0"}`
	})
	c := dialTest(t, srv.URL)

	outcome := c.Call(context.Background(), "eth_call", nil)
	require.Equal(t, KindRPCFault, outcome.Kind)
	require.NotNil(t, outcome.Fault)
	assert.Equal(t, 3, outcome.Fault.Code)
	assert.Equal(t, "execution reverted", outcome.Fault.Message)
	assert.JSONEq(t, `"0x08c379a0"`, string(outcome.Fault.Data))
}

func TestRPCClientCallFaultDataIsReencoded(t *testing.T) {
	_, srv := newFakeNode(t, func(nodeRequest) string {
		return `"error":{"code":-32000,"message":"rejected","data":{"z":9007199254740993,"a":[1.50,"x"]}}`
	})
	c := dialTest(t, srv.URL)

	outcome := c.Call(context.Background(), "eth_sendRawTransaction", nil)
	require.Equal(t, KindRPCFault, outcome.Kind)
	require.NotNil(t, outcome.Fault)
	assert.Equal(t, `{"a":[1.5,"x"],"z":9007199254740992}`, string(outcome.Fault.Data))
}

func TestRPCClientCallFaultWithoutData(t *testing.T) {
	_, srv := newFakeNode(t, func(nodeRequest) string {
		return `"error":{"code":-32601,"message":"the method foo does not exist/is not available"}`
	})
	c := dialTest(t, srv.URL)

	outcome := c.Call(context.Background(), "foo", nil)
	require.Equal(t, KindRPCFault, outcome.Kind)
	assert.Equal(t, -32601, outcome.Fault.Code)
	assert.Nil(t, outcome.Fault.Data)
}

func TestRPCClientCallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := dialTest(t, srv.URL)

	outcome := c.Call(context.Background(), "eth_chainId", nil)
	require.Equal(t, KindTransportFailure, outcome.Kind)

	var httpErr rpc.HTTPError
	require.True(t, errors.As(outcome.Err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestRPCClientCallConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := dialTest(t, url)

	outcome := c.Call(context.Background(), "eth_chainId", nil)
	require.Equal(t, KindTransportFailure, outcome.Kind)
	assert.Error(t, outcome.Err)
}

func TestRPCClientBlockNumber(t *testing.T) {
	node, srv := newFakeNode(t, func(req nodeRequest) string {
		switch req.Method {
		case "eth_blockNumber":
			return `"result":"0x1b4"`
		case "eth_chainId":
			return `"result":"0x1"`
		default:
			return `"error":{"code":-32601,"message":"not found"}`
		}
	})
	c := dialTest(t, srv.URL)

	head, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(436), head)

	chainID, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), chainID.Int64())

	reqs := node.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "eth_blockNumber", reqs[0].Method)
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
	"github.com/michael1011/web3-proxy/pkg/upstream"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, policyFileName), []byte(content), 0o600))
	return dir
}

func TestLoadPolicyMissingFile(t *testing.T) {
	cfg, err := LoadPolicy(t.TempDir(), 1000)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(1000), cfg)
	assert.Equal(t, []string{"eth_accounts"}, cfg.Deny)
	assert.Equal(t, []BlockRangeConfig{{Method: "eth_getLogs", MaxBlocks: 1000}}, cfg.BlockRange)
}

func TestLoadPolicy(t *testing.T) {
	dir := writePolicy(t, `
deny:
  - eth_accounts
  - personal_listAccounts
block_range:
  - method: eth_getLogs
  - method: bor_getLogs
    max_blocks: 64
`)

	cfg, err := LoadPolicy(dir, 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth_accounts", "personal_listAccounts"}, cfg.Deny)
	assert.Equal(t, []BlockRangeConfig{
		{Method: "eth_getLogs", MaxBlocks: 500},
		{Method: "bor_getLogs", MaxBlocks: 64},
	}, cfg.BlockRange)
}

func TestLoadPolicyEmptyFile(t *testing.T) {
	cfg, err := LoadPolicy(writePolicy(t, ""), 1000)
	require.NoError(t, err)
	assert.Empty(t, cfg.Deny)
	assert.Empty(t, cfg.BlockRange)
}

func TestLoadPolicyErrors(t *testing.T) {
	tcs := map[string]struct {
		content string
		err     string
	}{
		"duplicate deny":       {"deny: [eth_accounts, eth_accounts]", "method 'eth_accounts' is listed twice in deny rules"},
		"deny and range":       {"deny: [eth_getLogs]\nblock_range: [{method: eth_getLogs}]", "method 'eth_getLogs' is listed in both deny and block_range rules"},
		"empty deny method":    {"deny: ['']", "empty method name in deny rules"},
		"missing range method": {"block_range: [{max_blocks: 5}]", "empty method name in block_range rules"},
		"unknown key":          {"allow: [eth_chainId]", "field allow not found"},
		"not yaml":             {"deny: [eth_accounts", "failed to parse policy.yaml"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tc.content), 1000)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestPolicyConfigNewEngine(t *testing.T) {
	head := upstream.NewMockClient()
	head.SetHead(10)

	engine, err := PolicyConfig{
		Deny:       []string{"eth_accounts"},
		BlockRange: []BlockRangeConfig{{Method: "eth_getLogs", MaxBlocks: 5}},
	}.NewEngine(head)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth_accounts=deny", "eth_getLogs=block_range"}, engine.Bindings())

	decode := func(body string) jsonrpc.Request {
		req, err := jsonrpc.DecodeRequest([]byte(body))
		require.NoError(t, err)
		return req
	}

	assert.False(t, engine.Evaluate(context.Background(), decode(`{"method":"eth_accounts","id":1}`)).Allowed)
	assert.True(t, engine.Evaluate(context.Background(), decode(`{"method":"eth_getLogs","id":1,"params":[{"fromBlock":5}]}`)).Allowed)
	assert.False(t, engine.Evaluate(context.Background(), decode(`{"method":"eth_getLogs","id":1,"params":[{"fromBlock":4}]}`)).Allowed)
	assert.True(t, engine.Evaluate(context.Background(), decode(`{"method":"eth_chainId","id":1}`)).Allowed)

	_, err = PolicyConfig{Deny: []string{"eth_accounts", "eth_accounts"}}.NewEngine(head)
	assert.Error(t, err)
}

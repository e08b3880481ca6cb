package policy

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tidwall/gjson"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
	"github.com/michael1011/web3-proxy/pkg/log"
	"github.com/michael1011/web3-proxy/pkg/upstream"
)

const (
	// BlockRangeRuleName is the metrics and log name of BlockRangeRule.
	BlockRangeRuleName = "block_range"

	// DefaultMaxBlockRange is the widest toBlock-fromBlock span allowed by default.
	DefaultMaxBlockRange = uint64(1000)
)

// BlockRangeRule bounds the block span of log searches. The filter object is
// the first param. A filter with a non-null blockHash is scoped to one block and
// always allowed; otherwise fromBlock and toBlock are resolved against the
// upstream head and the call is rejected when toBlock is below fromBlock or
// toBlock-fromBlock exceeds maxBlocks.
type BlockRangeRule struct {
	head      upstream.HeadReader
	maxBlocks uint64
}

func NewBlockRangeRule(head upstream.HeadReader, maxBlocks uint64) *BlockRangeRule {
	return &BlockRangeRule{head: head, maxBlocks: maxBlocks}
}

func (r *BlockRangeRule) Name() string { return BlockRangeRuleName }

// MaxBlocks returns the configured ceiling.
func (r *BlockRangeRule) MaxBlocks() uint64 { return r.maxBlocks }

func (r *BlockRangeRule) Evaluate(ctx context.Context, req jsonrpc.Request) Decision {
	logger := log.FromContext(ctx)

	raw := req.Param(0)
	if raw == nil {
		return Reject(BlockRangeRuleName, http.StatusBadRequest, `"params" is not formatted correctly`)
	}
	filter := gjson.ParseBytes(raw)
	if !filter.IsObject() {
		return Reject(BlockRangeRuleName, http.StatusBadRequest, `"params" is not formatted correctly`)
	}

	fields := lastFields(filter, "blockHash", "fromBlock", "toBlock")

	if hash := fields["blockHash"]; hash.Exists() && hash.Type != gjson.Null {
		logger.Debug("log filter scoped by block hash")
		return Allow()
	}

	head, err := r.head.BlockNumber(ctx)
	if err != nil {
		return Reject(BlockRangeRuleName, http.StatusInternalServerError, "%s", err.Error())
	}

	from := resolveBlock(fields["fromBlock"], head)
	to := resolveBlock(fields["toBlock"], head)
	logger.Debug("resolved log filter range", "head", head, "fromBlock", from, "toBlock", to)

	// earliest resolves above head while the upstream reads it as genesis, so
	// an inverted range is refused.
	if to < from || to-from > r.maxBlocks {
		return Reject(BlockRangeRuleName, http.StatusBadRequest, "only up to %d blocks can be queried", r.maxBlocks)
	}

	return Allow()
}

// lastFields reads the named keys of obj the way encoding/json does on the
// upstream: keys match case-insensitively and a repeated key keeps its last value.
func lastFields(obj gjson.Result, names ...string) map[string]gjson.Result {
	out := make(map[string]gjson.Result, len(names))
	obj.ForEach(func(key, value gjson.Result) bool {
		for _, name := range names {
			if strings.EqualFold(key.String(), name) {
				out[name] = value
			}
		}
		return true
	})
	return out
}

// resolveBlock turns a filter block reference into a number.
//   - absent, null, "latest", "safe", "finalized" and unknown values: head
//   - "earliest", "pending": head+1, the block that is not mined yet
//   - JSON integers and hex quantities: their value
func resolveBlock(ref gjson.Result, head uint64) uint64 {
	switch ref.Type {
	case gjson.Number:
		if n, err := strconv.ParseUint(ref.Raw, 10, 64); err == nil {
			return n
		}
	case gjson.String:
		switch s := ref.String(); s {
		case "earliest", "pending":
			return head + 1
		default:
			if n, err := hexutil.DecodeUint64(s); err == nil {
				return n
			}
		}
	}
	return head
}

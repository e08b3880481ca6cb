package proxy

// otherMethodLabel replaces method names outside the known set in metric labels.
const otherMethodLabel = "other"

// knownMethods are the standard Ethereum JSON-RPC methods reported under
// their own name in metrics. Methods bound to a policy rule are added by
// NewHandler.
var knownMethods = []string{
	"web3_clientVersion",
	"web3_sha3",
	"net_version",
	"net_listening",
	"net_peerCount",
	"eth_accounts",
	"eth_blobBaseFee",
	"eth_blockNumber",
	"eth_call",
	"eth_chainId",
	"eth_coinbase",
	"eth_createAccessList",
	"eth_estimateGas",
	"eth_feeHistory",
	"eth_gasPrice",
	"eth_getBalance",
	"eth_getBlockByHash",
	"eth_getBlockByNumber",
	"eth_getBlockReceipts",
	"eth_getBlockTransactionCountByHash",
	"eth_getBlockTransactionCountByNumber",
	"eth_getCode",
	"eth_getFilterChanges",
	"eth_getFilterLogs",
	"eth_getLogs",
	"eth_getProof",
	"eth_getStorageAt",
	"eth_getTransactionByBlockHashAndIndex",
	"eth_getTransactionByBlockNumberAndIndex",
	"eth_getTransactionByHash",
	"eth_getTransactionCount",
	"eth_getTransactionReceipt",
	"eth_getUncleByBlockHashAndIndex",
	"eth_getUncleByBlockNumberAndIndex",
	"eth_getUncleCountByBlockHash",
	"eth_getUncleCountByBlockNumber",
	"eth_maxPriorityFeePerGas",
	"eth_newBlockFilter",
	"eth_newFilter",
	"eth_newPendingTransactionFilter",
	"eth_sendRawTransaction",
	"eth_sendTransaction",
	"eth_sign",
	"eth_signTransaction",
	"eth_signTypedData_v4",
	"eth_syncing",
	"eth_uninstallFilter",
	"personal_listAccounts",
}

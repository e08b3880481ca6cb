package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
	"github.com/michael1011/web3-proxy/pkg/policy"
	"github.com/michael1011/web3-proxy/pkg/upstream"
)

const (
	// DeniedMethodStatus is the HTTP status of a JSON-RPC error envelope
	// returned for a method the policy refuses outright. Earlier deployments
	// answered these with an error status; clients expect 200 now.
	DeniedMethodStatus = http.StatusOK

	// UpstreamFaultStatus is the HTTP status of an envelope carrying an error
	// reported by the upstream node. Earlier deployments used 500.
	UpstreamFaultStatus = http.StatusOK
)

// writeEnvelope encodes resp as the JSON body with the given status.
func writeEnvelope(w http.ResponseWriter, status int, resp jsonrpc.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// writeCodecError answers a body that failed decoding. No id is known, so
// the reply is plain text.
func writeCodecError(w http.ResponseWriter, err error) {
	writeText(w, http.StatusBadRequest, err.Error())
}

// writeRejection answers a call refused by the policy.
func writeRejection(w http.ResponseWriter, id jsonrpc.ID, d policy.Decision) {
	if d.RPCError != nil {
		writeEnvelope(w, DeniedMethodStatus, jsonrpc.NewErrorResponse(id, d.RPCError))
		return
	}

	status := d.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	writeText(w, status, d.Message)
}

// writeOutcome answers a forwarded call.
func writeOutcome(w http.ResponseWriter, id jsonrpc.ID, o upstream.Outcome) {
	switch o.Kind {
	case upstream.KindSuccess:
		writeEnvelope(w, http.StatusOK, jsonrpc.NewResultResponse(id, o.Result))
	case upstream.KindRPCFault:
		writeEnvelope(w, UpstreamFaultStatus, jsonrpc.NewErrorResponse(id, o.Fault))
	default:
		msg := "upstream transport failure"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		writeText(w, http.StatusInternalServerError, msg)
	}
}

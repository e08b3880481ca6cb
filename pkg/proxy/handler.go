package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
	"github.com/michael1011/web3-proxy/pkg/log"
	"github.com/michael1011/web3-proxy/pkg/policy"
	"github.com/michael1011/web3-proxy/pkg/upstream"
)

const (
	// DefaultMaxBodyBytes caps the size of a request body.
	DefaultMaxBodyBytes = int64(5 << 20)

	tracerName = "github.com/michael1011/web3-proxy/pkg/proxy"
)

// Caller forwards a call to the upstream node.
type Caller interface {
	Call(ctx context.Context, method string, params []json.RawMessage) upstream.Outcome
}

// Handler serves POST / : it decodes the envelope, evaluates the policy,
// forwards allowed calls and writes the reply. Handler holds no per-request
// state and is safe for concurrent use.
type Handler struct {
	engine       *policy.Engine
	upstream     Caller
	metrics      *Metrics
	maxBodyBytes int64
	tracer       trace.Tracer
	lg           log.Logger
}

// NewHandler creates the proxy handler. metrics may be nil. A non-positive
// maxBodyBytes falls back to DefaultMaxBodyBytes.
func NewHandler(engine *policy.Engine, caller Caller, metrics *Metrics, maxBodyBytes int64, logger log.Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	metrics.TrackMethods(engine.Methods()...)
	return &Handler{
		engine:       engine,
		upstream:     caller,
		metrics:      metrics,
		maxBodyBytes: maxBodyBytes,
		tracer:       otel.Tracer(tracerName),
		lg:           logger.WithName("proxy"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.metrics.countRequest("", outcomeInvalid)
		writeCodecError(w, &jsonrpc.MalformedBodyError{Err: err})
		return
	}

	req, err := jsonrpc.DecodeRequest(body)
	if err != nil {
		h.metrics.countRequest("", outcomeInvalid)
		h.lg.Debug("could not decode request", "error", err)
		writeCodecError(w, err)
		return
	}

	// A client hanging up does not cancel a call already in flight.
	ctx := context.WithoutCancel(r.Context())
	ctx, span := h.tracer.Start(ctx, "proxy "+req.Method, trace.WithAttributes(
		attribute.String("rpc.system", "jsonrpc"),
		attribute.String("rpc.method", req.Method),
	))
	defer span.End()

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	ctx = log.SetContextLogger(ctx, h.lg.WithKV("requestID", requestID).WithKV("method", req.Method))
	logger := log.FromContext(ctx)
	logger.Debug("received call", "id", req.ID.String())

	d := h.engine.Evaluate(ctx, req)
	if !d.Allowed {
		logger.Warn("rejected call", "rule", d.Rule, "reason", d.Message)
		span.SetAttributes(attribute.String("policy.rule", d.Rule))
		h.metrics.countRejection(req.Method, d.Rule)
		h.metrics.countRequest(req.Method, outcomeRejected)
		writeRejection(w, req.ID, d)
		return
	}

	logger.Debug("forwarding call", "params", len(req.Params))
	started := time.Now()
	outcome := h.upstream.Call(ctx, req.Method, req.Params)
	h.metrics.observeUpstream(req.Method, started)
	h.metrics.countRequest(req.Method, outcome.Kind.String())

	switch outcome.Kind {
	case upstream.KindRPCFault:
		logger.Debug("upstream returned an error", "code", outcome.Fault.Code, "message", outcome.Fault.Message)
	case upstream.KindTransportFailure:
		if outcome.Err == nil {
			outcome.Err = errors.New("upstream transport failure")
		}
		logger.Error("request to upstream failed", "error", outcome.Err)
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
	}

	writeOutcome(w, req.ID, outcome)
}

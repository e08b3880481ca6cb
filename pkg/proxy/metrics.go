package proxy

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/michael1011/web3-proxy/pkg/upstream"
)

// Request outcome labels besides the upstream.Kind names.
const (
	outcomeRejected = "rejected"
	outcomeInvalid  = "invalid"
)

// Metrics contains all Prometheus metrics of the proxy
type Metrics struct {
	// Requests counts POST / calls by method and outcome. Calls that fail
	// decoding are counted with an empty method.
	Requests *prometheus.CounterVec

	// PolicyRejections counts calls refused by a rule
	PolicyRejections *prometheus.CounterVec

	// UpstreamDuration observes forwarded calls
	UpstreamDuration *prometheus.HistogramVec

	// HeadLookups counts head block queries made while evaluating rules
	HeadLookups *prometheus.CounterVec

	// methods holds the method names used as label values as they are.
	// Any other name is reported as otherMethodLabel.
	mu      sync.RWMutex
	methods map[string]struct{}
}

// NewMetrics initializes and registers Prometheus metrics
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers Prometheus metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	methods := make(map[string]struct{}, len(knownMethods))
	for _, method := range knownMethods {
		methods[method] = struct{}{}
	}

	return &Metrics{
		methods: methods,
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web3proxy_requests_total",
				Help: "The total number of proxied JSON-RPC calls",
			},
			[]string{"method", "outcome"},
		),
		PolicyRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web3proxy_policy_rejections_total",
				Help: "The total number of calls rejected by the policy",
			},
			[]string{"method", "rule"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "web3proxy_upstream_duration_seconds",
				Help:    "Duration of calls forwarded to the upstream node",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		HeadLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web3proxy_head_lookups_total",
				Help: "The total number of head block lookups made for policy evaluation",
			},
			[]string{"status"},
		),
	}
}

// instrumentedHead counts head block lookups.
type instrumentedHead struct {
	upstream.HeadReader
	metrics *Metrics
}

// InstrumentHead wraps head so that every BlockNumber call is counted.
// A nil metrics returns head unchanged.
func InstrumentHead(head upstream.HeadReader, metrics *Metrics) upstream.HeadReader {
	if metrics == nil {
		return head
	}
	return &instrumentedHead{HeadReader: head, metrics: metrics}
}

func (h *instrumentedHead) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := h.HeadReader.BlockNumber(ctx)
	status := "success"
	if err != nil {
		status = "failure"
	}
	h.metrics.HeadLookups.WithLabelValues(status).Inc()
	return n, err
}

// TrackMethods reports the given methods under their own name.
func (m *Metrics) TrackMethods(methods ...string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, method := range methods {
		m.methods[method] = struct{}{}
	}
}

// methodLabel bounds the label values taken from caller supplied method names.
func (m *Metrics) methodLabel(method string) string {
	if method == "" {
		return method
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.methods[method]; ok {
		return method
	}
	return otherMethodLabel
}

func (m *Metrics) observeUpstream(method string, started time.Time) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(m.methodLabel(method)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) countRequest(method, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(m.methodLabel(method), outcome).Inc()
}

func (m *Metrics) countRejection(method, rule string) {
	if m == nil {
		return
	}
	m.PolicyRejections.WithLabelValues(m.methodLabel(method), rule).Inc()
}

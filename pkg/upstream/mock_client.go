package upstream

import (
	"context"
	"encoding/json"
	"sync"
)

var _ Client = (*MockClient)(nil)

// RecordedCall is one Call observed by MockClient.
type RecordedCall struct {
	Method string
	Params []json.RawMessage
}

// MockClient is a Client for tests. It records every call and answers with
// canned outcomes. Safe for concurrent use.
type MockClient struct {
	mu          sync.Mutex
	calls       []RecordedCall
	headLookups int

	outcome Outcome
	callFn  func(method string, params []json.RawMessage) Outcome
	head    uint64
	headErr error
}

// NewMockClient returns a mock answering every call with a null result and head 0.
func NewMockClient() *MockClient {
	return &MockClient{outcome: Success(json.RawMessage("null"))}
}

// SetOutcome makes every Call return o.
func (m *MockClient) SetOutcome(o Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcome = o
	m.callFn = nil
}

// SetCallFunc computes the outcome per call. It takes precedence over SetOutcome.
func (m *MockClient) SetCallFunc(fn func(method string, params []json.RawMessage) Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callFn = fn
}

// SetHead sets the block number returned by BlockNumber.
func (m *MockClient) SetHead(head uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.head = head
	m.headErr = nil
}

// SetHeadError makes BlockNumber fail with err.
func (m *MockClient) SetHeadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headErr = err
}

func (m *MockClient) Call(_ context.Context, method string, params []json.RawMessage) Outcome {
	m.mu.Lock()
	m.calls = append(m.calls, RecordedCall{Method: method, Params: params})
	fn, outcome := m.callFn, m.outcome
	m.mu.Unlock()

	if fn != nil {
		return fn(method, params)
	}
	return outcome
}

func (m *MockClient) BlockNumber(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headLookups++
	if m.headErr != nil {
		return 0, m.headErr
	}
	return m.head, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedCall(nil), m.calls...)
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockClient) HeadLookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.headLookups
}

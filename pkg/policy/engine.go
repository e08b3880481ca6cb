package policy

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/michael1011/web3-proxy/pkg/jsonrpc"
)

// Rule decides whether a call to one method may be forwarded.
type Rule interface {
	// Name identifies the rule in logs and metrics.
	Name() string
	// Evaluate may block on upstream lookups; it must honour ctx.
	Evaluate(ctx context.Context, req jsonrpc.Request) Decision
}

// Engine maps method names to rules. Methods without a rule are allowed.
// Rules are registered during startup; after that the engine is read-only and
// safe for concurrent use.
type Engine struct {
	rules map[string]Rule
}

func NewEngine() *Engine {
	return &Engine{rules: make(map[string]Rule)}
}

// Handle binds rule to method. A method can have only one rule.
func (e *Engine) Handle(method string, rule Rule) error {
	if method == "" {
		return errors.New("empty method name")
	}
	if rule == nil {
		return fmt.Errorf("nil rule for method %s", method)
	}
	if existing, ok := e.rules[method]; ok {
		return fmt.Errorf("method %s already bound to rule %s", method, existing.Name())
	}
	e.rules[method] = rule
	return nil
}

// Evaluate returns the decision for req.
func (e *Engine) Evaluate(ctx context.Context, req jsonrpc.Request) Decision {
	rule, ok := e.rules[req.Method]
	if !ok {
		return Allow()
	}
	return rule.Evaluate(ctx, req)
}

// Methods lists the methods bound to a rule, sorted.
func (e *Engine) Methods() []string {
	out := make([]string, 0, len(e.rules))
	for method := range e.rules {
		out = append(out, method)
	}
	sort.Strings(out)
	return out
}

// Bindings lists "method=rule" pairs in method order.
func (e *Engine) Bindings() []string {
	out := make([]string, 0, len(e.rules))
	for method, rule := range e.rules {
		out = append(out, method+"="+rule.Name())
	}
	sort.Strings(out)
	return out
}

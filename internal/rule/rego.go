package rule

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
)

// RegoEngine evaluates rule expressions as Rego queries over input.
// Tenant rules are plain query expressions, e.g. "input.request.ip_risk < 30".
type RegoEngine struct{}

var _ Engine = (*RegoEngine)(nil)

// NewRegoEngine returns a Rego-based rule engine.
func NewRegoEngine() *RegoEngine {
	return &RegoEngine{}
}

// Evaluate runs expression as a Rego query with evaluable bound to input.
// Returns def on empty expression, parse or evaluation failure, and when the
// query result is not a boolean. A comparison expression that does not hold
// is undefined in Rego (empty result set) and also resolves to def; callers
// in this engine always pass def=false, so "did not hold", "unconfigured",
// and "failed" collapse to the same value.
func (e *RegoEngine) Evaluate(ctx context.Context, expression string, evaluable EvaluableContext, def bool) bool {
	if strings.TrimSpace(expression) == "" {
		return def
	}
	q := rego.New(
		rego.Query(expression),
		rego.Input(map[string]interface{}(evaluable)),
	)
	rs, err := q.Eval(ctx)
	if err != nil || len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return def
	}
	if v, ok := rs[0].Expressions[0].Value.(bool); ok {
		return v
	}
	return def
}

// HealthCheck verifies the in-process Rego engine can parse and evaluate a
// probe expression. Returns nil on success.
func (e *RegoEngine) HealthCheck(ctx context.Context) error {
	q := rego.New(
		rego.Query("input.probe == 1"),
		rego.Input(map[string]interface{}{"probe": 1}),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval probe expression: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("probe query returned no result")
	}
	return nil
}

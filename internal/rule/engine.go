// Package rule evaluates tenant-authored boolean rule expressions.
// Evaluation never fails from the caller's point of view: every error path
// collapses to the caller-supplied default.
package rule

import "context"

// EvaluableContext carries the request/session/user attributes a rule can
// reference. It is handed to the engine verbatim as the expression input.
type EvaluableContext map[string]any

// Engine evaluates a boolean expression against an evaluable context.
// Implementations must return def on an empty expression, a parse error, an
// evaluation error, or a non-boolean result; they never return an error.
type Engine interface {
	Evaluate(ctx context.Context, expression string, evaluable EvaluableContext, def bool) bool
}

package mfapolicy

import (
	"context"

	"iam-gateway/internal/rule"
)

// StepUpEvaluator decides whether the challenge may be skipped on step-up
// grounds. It is the evaluator that normally computes the step-up rule
// verdict, which later evaluators read from the memo.
type StepUpEvaluator struct {
	rules rule.Engine
}

// NewStepUpEvaluator returns a StepUpEvaluator using the given rule engine.
func NewStepUpEvaluator(rules rule.Engine) *StepUpEvaluator {
	return &StepUpEvaluator{rules: rules}
}

// Decide reports whether it is safe to skip the challenge. The step-up rule
// is evaluated only when step-up is active; the verdict is cached on the
// context so sibling evaluators see the same value.
func (e *StepUpEvaluator) Decide(ctx context.Context, pc *Context) bool {
	if pc.StepUpActive {
		pc.resolveStepUpRuleVerdict(ctx, e.rules)
	}
	return (pc.UserStronglyAuth || pc.MfaSkipped) && pc.StepUpActive && !pc.StepUpRuleVerdict()
}

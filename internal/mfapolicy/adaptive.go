package mfapolicy

import (
	"context"

	"iam-gateway/internal/rule"
)

// AdaptiveMfaEvaluator decides whether the adaptive rule alone justifies
// skipping the challenge. Adaptive MFA only wins when neither a
// remember-device policy nor a step-up policy is in play; those carry their
// own, more specific trust signals and take precedence.
type AdaptiveMfaEvaluator struct {
	rules rule.Engine
}

// NewAdaptiveMfaEvaluator returns an AdaptiveMfaEvaluator using the given rule engine.
func NewAdaptiveMfaEvaluator(rules rule.Engine) *AdaptiveMfaEvaluator {
	return &AdaptiveMfaEvaluator{rules: rules}
}

// Decide reports whether it is safe to skip the challenge.
func (e *AdaptiveMfaEvaluator) Decide(ctx context.Context, pc *Context) bool {
	if !pc.AmfaActive {
		return false
	}
	// Bypassed session with nothing enrolled: nothing to adaptively evaluate against.
	if pc.MfaSkipped && !pc.EndUserEnrolled && !pc.UserHasMatchingFactors {
		return false
	}
	// The rule is only computed when the user has an activated matching factor
	// and is not mid-flow picking an alternative one; otherwise the memo keeps
	// its prior value.
	if pc.UserHasMatchingActivatedFactors && !pc.AlternativeFactorChosen {
		pc.resolveAdaptiveRuleVerdict(ctx, e.rules)
	}
	return !pc.RememberDevice.Active && !pc.StepUpActive && pc.AdaptiveRuleVerdict()
}

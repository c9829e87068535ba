package mfapolicy

import (
	"context"

	"iam-gateway/internal/rule"
)

// ChallengeDecision sequences the composite evaluators into the final
// "must challenge" answer. Evaluator order is fixed: adaptive first (it may
// compute the adaptive rule verdict), then remember-device, then strong-auth,
// both of which read whatever the memo holds at that point.
type ChallengeDecision struct {
	rules          rule.Engine
	adaptive       *AdaptiveMfaEvaluator
	rememberDevice *RememberDeviceEvaluator
	strongAuth     *StrongAuthEvaluator
}

// NewChallengeDecision returns a ChallengeDecision using the given rule engine.
func NewChallengeDecision(rules rule.Engine) *ChallengeDecision {
	return &ChallengeDecision{
		rules:          rules,
		adaptive:       NewAdaptiveMfaEvaluator(rules),
		rememberDevice: NewRememberDeviceEvaluator(),
		strongAuth:     NewStrongAuthEvaluator(),
	}
}

// MustChallenge reports whether the user must be forced through an MFA
// challenge before being granted access.
//
// A completed challenge never repeats within the same session. A fully
// authenticated user is only challenged when an active step-up rule says so;
// that branch returns the rule verdict directly, not inverted, which is the
// one asymmetry in the decision. Every other case skips the challenge only
// when at least one evaluator finds a trust signal.
func (d *ChallengeDecision) MustChallenge(ctx context.Context, pc *Context) bool {
	if ChallengeAlreadyComplete(pc) {
		return false
	}
	if pc.UserFullyAuthenticated {
		if !pc.StepUpActive {
			return false
		}
		return pc.resolveStepUpRuleVerdict(ctx, d.rules)
	}
	skip := d.adaptive.Decide(ctx, pc) ||
		d.rememberDevice.Decide(ctx, pc) ||
		d.strongAuth.Decide(pc)
	return !skip
}

// RememberDeviceEvaluator exposes the shared remember-device evaluator so the
// consent flow can ask IsSafeToTrust on the same context.
func (d *ChallengeDecision) RememberDeviceEvaluator() *RememberDeviceEvaluator {
	return d.rememberDevice
}

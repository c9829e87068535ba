// Package mfapolicy decides whether an authenticated request must pass an
// additional MFA challenge. Evaluators combine per-request facts with
// tenant-authored adaptive and step-up rules; each evaluator answers "is it
// safe to skip the challenge", and the orchestrator inverts the combined
// answer.
package mfapolicy

import (
	"context"

	clientdomain "iam-gateway/internal/client/domain"
	"iam-gateway/internal/rule"
)

// Context is the per-request snapshot of every fact the decision needs.
// It is built once by the pipeline, owned by a single request, and must not
// be shared across requests or reused for a second decision.
//
// The two rule verdict slots are write-once memos: whichever evaluator
// computes a verdict first caches it, and every later evaluator in the same
// request reads the cached value instead of re-invoking the rule engine.
// Reading a slot that was never computed yields false.
type Context struct {
	// AmfaActive is true when the tenant has Adaptive MFA enabled for this client.
	AmfaActive bool
	// MfaSkipped is the upstream bypass signal (e.g. federated SSO) for this session.
	MfaSkipped bool
	// EndUserEnrolled is true when the session already recorded a completed
	// enrollment, or the user owns an enrolled factor matching the client's factors.
	EndUserEnrolled bool
	// UserHasMatchingFactors: user owns at least one enrollment, active or
	// not, matching the client's configured factors.
	UserHasMatchingFactors bool
	// UserHasMatchingActivatedFactors restricts the above to activated enrollments.
	UserHasMatchingActivatedFactors bool
	// AlternativeFactorChosen: user is mid-flow choosing a different enrolled
	// factor than the one that would be auto-selected.
	AlternativeFactorChosen bool
	// StepUpActive is true when the tenant has a step-up rule configured for this client.
	StepUpActive bool
	// StepUpRule is the step-up rule expression, evaluated on demand.
	StepUpRule string
	// AmfaRule is the adaptive MFA rule expression, evaluated on demand.
	AmfaRule string
	// UserStronglyAuth: user already completed a strong-credential authentication this session.
	UserStronglyAuth bool
	// UserFullyAuthenticated: the primary authentication stage is complete,
	// independent of MFA.
	UserFullyAuthenticated bool
	// DeviceRiskAssessmentEnabled: an external device-risk subsystem is active
	// and takes precedence over remember-device logic.
	DeviceRiskAssessmentEnabled bool
	// DeviceAlreadyExists: the device-fingerprint lookup earlier in the
	// pipeline found a trusted match.
	DeviceAlreadyExists bool
	// RememberDevice is never absent; an inactive zero value stands in when
	// the client has no settings.
	RememberDevice clientdomain.RememberDeviceSettings
	// MfaChallengeComplete: session flag set once the user passed the MFA step.
	MfaChallengeComplete bool
	// Evaluable is handed to the rule engine verbatim.
	Evaluable rule.EvaluableContext

	adaptiveRuleVerdict *bool
	stepUpRuleVerdict   *bool
}

// AdaptiveRuleVerdict returns the memoized adaptive rule verdict without
// triggering evaluation; false when no evaluator has computed it yet.
func (c *Context) AdaptiveRuleVerdict() bool {
	if c.adaptiveRuleVerdict == nil {
		return false
	}
	return *c.adaptiveRuleVerdict
}

// StepUpRuleVerdict returns the memoized step-up rule verdict without
// triggering evaluation; false when no evaluator has computed it yet.
func (c *Context) StepUpRuleVerdict() bool {
	if c.stepUpRuleVerdict == nil {
		return false
	}
	return *c.stepUpRuleVerdict
}

// resolveAdaptiveRuleVerdict evaluates the adaptive rule once and caches the
// verdict. Later calls return the cached value without touching the engine.
func (c *Context) resolveAdaptiveRuleVerdict(ctx context.Context, rules rule.Engine) bool {
	if c.adaptiveRuleVerdict == nil {
		v := rules.Evaluate(ctx, c.AmfaRule, c.Evaluable, false)
		c.adaptiveRuleVerdict = &v
	}
	return *c.adaptiveRuleVerdict
}

// resolveStepUpRuleVerdict evaluates the step-up rule once and caches the
// verdict. Later calls return the cached value without touching the engine.
func (c *Context) resolveStepUpRuleVerdict(ctx context.Context, rules rule.Engine) bool {
	if c.stepUpRuleVerdict == nil {
		v := rules.Evaluate(ctx, c.StepUpRule, c.Evaluable, false)
		c.stepUpRuleVerdict = &v
	}
	return *c.stepUpRuleVerdict
}

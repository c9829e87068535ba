package mfapolicy

// StrongAuthEvaluator decides whether an already strong-authenticated or
// bypassed session justifies skipping the challenge. It only reads the
// memoized rule verdicts; evaluation order within the decision sequence
// determines what it sees.
type StrongAuthEvaluator struct{}

// NewStrongAuthEvaluator returns a StrongAuthEvaluator.
func NewStrongAuthEvaluator() *StrongAuthEvaluator {
	return &StrongAuthEvaluator{}
}

// Decide reports whether it is safe to skip the challenge.
func (e *StrongAuthEvaluator) Decide(pc *Context) bool {
	// Nothing strong to rely on: MFA must be enforced.
	if !pc.MfaSkipped && !pc.UserHasMatchingActivatedFactors {
		return false
	}
	if (!pc.MfaSkipped && pc.AmfaActive && !pc.AdaptiveRuleVerdict()) ||
		(!pc.DeviceRiskAssessmentEnabled && !pc.MfaSkipped && pc.RememberDevice.Active && !pc.DeviceAlreadyExists) ||
		(pc.StepUpActive && pc.StepUpRuleVerdict() && (pc.UserStronglyAuth || pc.MfaSkipped)) {
		return false
	}
	if pc.UserHasMatchingActivatedFactors && !pc.AlternativeFactorChosen &&
		pc.AmfaActive && pc.AdaptiveRuleVerdict() {
		return true
	}
	return !pc.StepUpActive && (pc.UserStronglyAuth || pc.MfaSkipped)
}

package mfapolicy

import "context"

// TrustAssessment is the verdict on whether the "remember this device"
// consent prompt may be shown safely. The zero value means no assessment was
// made.
type TrustAssessment int

const (
	TrustDeferred TrustAssessment = iota
	TrustSafe
	TrustUnsafe
)

func (t TrustAssessment) String() string {
	switch t {
	case TrustSafe:
		return "SAFE"
	case TrustUnsafe:
		return "UNSAFE"
	default:
		return "DEFERRED"
	}
}

// RememberDeviceEvaluator decides whether a recognized device justifies
// skipping the challenge, and separately whether it is safe to offer the
// remember-device consent prompt. It only reads the memoized rule verdicts
// and never invokes the rule engine itself.
type RememberDeviceEvaluator struct{}

// NewRememberDeviceEvaluator returns a RememberDeviceEvaluator.
func NewRememberDeviceEvaluator() *RememberDeviceEvaluator {
	return &RememberDeviceEvaluator{}
}

// Decide reports whether it is safe to skip the challenge.
func (e *RememberDeviceEvaluator) Decide(_ context.Context, pc *Context) bool {
	if !pc.MfaSkipped && pc.AmfaActive {
		// AND binds before OR: a failed adaptive rule is overridden either by
		// strong auth without step-up, or by a known device under
		// skipRememberDevice.
		if !pc.AdaptiveRuleVerdict() && (pc.UserStronglyAuth && !pc.StepUpActive) ||
			(!pc.UserStronglyAuth && pc.RememberDevice.SkipRememberDevice && pc.DeviceAlreadyExists) {
			return true
		}
		return false
	}
	if pc.StepUpActive && (pc.UserStronglyAuth || pc.MfaSkipped) {
		return false
	}
	if pc.DeviceRiskAssessmentEnabled {
		// Defer entirely to the external risk subsystem.
		return false
	}
	return pc.UserHasMatchingActivatedFactors && pc.RememberDevice.Active &&
		(pc.DeviceAlreadyExists || pc.RememberDevice.SkipRememberDevice)
}

// IsSafeToTrust gates the remember-device consent UI, independent of the
// challenge decision.
func (e *RememberDeviceEvaluator) IsSafeToTrust(pc *Context) TrustAssessment {
	if !pc.MfaSkipped && pc.AmfaActive {
		if !pc.AdaptiveRuleVerdict() && !pc.RememberDevice.SkipRememberDevice {
			return TrustUnsafe
		}
		if pc.AdaptiveRuleVerdict() && !pc.UserStronglyAuth {
			return TrustSafe
		}
	}
	if pc.StepUpActive && (pc.UserStronglyAuth || pc.MfaSkipped) {
		return TrustUnsafe
	}
	if pc.DeviceRiskAssessmentEnabled {
		return TrustUnsafe
	}
	if pc.UserHasMatchingActivatedFactors && pc.RememberDevice.Active && pc.DeviceAlreadyExists {
		return TrustSafe
	}
	return TrustUnsafe
}

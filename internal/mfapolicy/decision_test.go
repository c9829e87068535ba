package mfapolicy

import (
	"context"
	"testing"

	clientdomain "iam-gateway/internal/client/domain"
	"iam-gateway/internal/rule"
)

const stepUpExpr = "input.transaction.amount > 1000"

func TestChallengeDecision_CompletedSessionShortCircuit(t *testing.T) {
	d := NewChallengeDecision(&rule.Script{})
	// Hostile field combination: everything else demands a challenge.
	pc := &Context{
		MfaChallengeComplete: true,
		AmfaActive:           true,
		StepUpActive:         true,
		StepUpRule:           stepUpExpr,
		AmfaRule:             amfaExpr,
	}
	if d.MustChallenge(context.Background(), pc) {
		t.Error("MustChallenge = true on completed session, want false")
	}
}

func TestChallengeDecision_FullyAuthenticatedWithoutStepUp(t *testing.T) {
	d := NewChallengeDecision(&rule.Script{})
	pc := &Context{
		UserFullyAuthenticated: true,
		AmfaActive:             true,
		AmfaRule:               amfaExpr,
	}
	if d.MustChallenge(context.Background(), pc) {
		t.Error("MustChallenge = true for fully authenticated user without step-up, want false")
	}
}

func TestChallengeDecision_StepUpPostAuthPath(t *testing.T) {
	tests := []struct {
		name    string
		verdict bool
		want    bool
	}{
		{"rule triggers challenge", true, true},
		{"rule stays quiet", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := &rule.Script{Verdicts: map[string]bool{stepUpExpr: tt.verdict}}
			d := NewChallengeDecision(script)
			pc := &Context{
				UserFullyAuthenticated: true,
				StepUpActive:           true,
				StepUpRule:             stepUpExpr,
			}
			if got := d.MustChallenge(context.Background(), pc); got != tt.want {
				t.Errorf("MustChallenge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChallengeDecision_AdaptiveOnlyTrust(t *testing.T) {
	script := &rule.Script{Verdicts: map[string]bool{amfaExpr: true}}
	d := NewChallengeDecision(script)
	pc := &Context{
		AmfaActive:                      true,
		AmfaRule:                        amfaExpr,
		UserHasMatchingActivatedFactors: true,
	}
	if d.MustChallenge(context.Background(), pc) {
		t.Error("MustChallenge = true, want false when adaptive rule trusts the request")
	}
}

func TestChallengeDecision_RememberDeviceOverridesFailedAdaptiveRule(t *testing.T) {
	script := &rule.Script{Verdicts: map[string]bool{amfaExpr: false}}
	d := NewChallengeDecision(script)
	pc := &Context{
		AmfaActive:                      true,
		AmfaRule:                        amfaExpr,
		UserStronglyAuth:                true,
		UserHasMatchingActivatedFactors: true,
	}
	if d.MustChallenge(context.Background(), pc) {
		t.Error("MustChallenge = true, want false via remember-device override")
	}
}

func TestChallengeDecision_BaselineAlwaysChallenge(t *testing.T) {
	// One activated factor, no policies, no bypass: the baseline case must
	// challenge because no trust signal exists.
	d := NewChallengeDecision(&rule.Script{})
	pc := &Context{
		UserHasMatchingActivatedFactors: true,
	}
	if !d.MustChallenge(context.Background(), pc) {
		t.Error("MustChallenge = false, want true when no trust signal exists")
	}
}

func TestChallengeDecision_Idempotent(t *testing.T) {
	script := &rule.Script{Verdicts: map[string]bool{amfaExpr: true}}
	d := NewChallengeDecision(script)
	pc := &Context{
		AmfaActive:                      true,
		AmfaRule:                        amfaExpr,
		UserHasMatchingActivatedFactors: true,
	}
	first := d.MustChallenge(context.Background(), pc)
	second := d.MustChallenge(context.Background(), pc)
	if first != second {
		t.Errorf("MustChallenge not idempotent: first=%v second=%v", first, second)
	}
	if n := script.CallCount(amfaExpr); n != 1 {
		t.Errorf("adaptive rule evaluated %d times across two decisions, want 1", n)
	}
}

func TestChallengeDecision_AdaptiveVerdictSharedAcrossEvaluators(t *testing.T) {
	// The adaptive evaluator computes the verdict; remember-device and
	// strong-auth must see the cached value without re-invoking the engine.
	script := &rule.Script{Verdicts: map[string]bool{amfaExpr: false}}
	d := NewChallengeDecision(script)
	pc := &Context{
		AmfaActive:                      true,
		AmfaRule:                        amfaExpr,
		UserHasMatchingActivatedFactors: true,
		UserStronglyAuth:                true,
	}
	d.MustChallenge(context.Background(), pc)
	if n := script.CallCount(amfaExpr); n != 1 {
		t.Errorf("adaptive rule evaluated %d times in one decision, want 1", n)
	}
}

func TestChallengeDecision_StepUpVerdictCachedAcrossDecisions(t *testing.T) {
	script := &rule.Script{Verdicts: map[string]bool{stepUpExpr: true}}
	d := NewChallengeDecision(script)
	pc := &Context{
		UserFullyAuthenticated: true,
		StepUpActive:           true,
		StepUpRule:             stepUpExpr,
	}
	d.MustChallenge(context.Background(), pc)
	d.MustChallenge(context.Background(), pc)
	if n := script.CallCount(stepUpExpr); n != 1 {
		t.Errorf("step-up rule evaluated %d times, want 1 (cached)", n)
	}
}

func TestChallengeDecision_RememberedDeviceEndToEnd(t *testing.T) {
	d := NewChallengeDecision(&rule.Script{})
	pc := &Context{
		UserHasMatchingActivatedFactors: true,
		DeviceAlreadyExists:             true,
		RememberDevice:                  clientdomain.RememberDeviceSettings{Active: true},
	}
	if d.MustChallenge(context.Background(), pc) {
		t.Error("MustChallenge = true for remembered device, want false")
	}
	if got := d.RememberDeviceEvaluator().IsSafeToTrust(pc); got != TrustSafe {
		t.Errorf("IsSafeToTrust = %v, want SAFE", got)
	}
}

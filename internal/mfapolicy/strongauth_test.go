package mfapolicy

import (
	"testing"

	clientdomain "iam-gateway/internal/client/domain"
)

func withStepUpVerdict(pc Context, v bool) Context {
	pc.stepUpRuleVerdict = &v
	return pc
}

func TestStrongAuthEvaluator_Decide(t *testing.T) {
	e := NewStrongAuthEvaluator()

	tests := []struct {
		name string
		pc   Context
		want bool
	}{
		{
			name: "no activated factor enforces challenge",
			pc:   Context{UserStronglyAuth: true},
			want: false,
		},
		{
			name: "strong auth without any policy skips",
			pc: Context{
				UserHasMatchingActivatedFactors: true,
				UserStronglyAuth:                true,
			},
			want: true,
		},
		{
			name: "mfa skipped without any policy skips",
			pc: Context{
				MfaSkipped: true,
			},
			want: true,
		},
		{
			name: "failed adaptive rule blocks",
			pc: withAdaptiveVerdict(Context{
				UserHasMatchingActivatedFactors: true,
				UserStronglyAuth:                true,
				AmfaActive:                      true,
			}, false),
			want: false,
		},
		{
			name: "unknown device under active remember-device blocks",
			pc: Context{
				UserHasMatchingActivatedFactors: true,
				UserStronglyAuth:                true,
				RememberDevice:                  clientdomain.RememberDeviceSettings{Active: true},
			},
			want: false,
		},
		{
			name: "device risk assessment relaxes the unknown-device block",
			pc: Context{
				UserHasMatchingActivatedFactors: true,
				UserStronglyAuth:                true,
				DeviceRiskAssessmentEnabled:     true,
				RememberDevice:                  clientdomain.RememberDeviceSettings{Active: true},
			},
			want: true,
		},
		{
			name: "triggered step-up rule blocks",
			pc: withStepUpVerdict(Context{
				UserHasMatchingActivatedFactors: true,
				UserStronglyAuth:                true,
				StepUpActive:                    true,
			}, true),
			want: false,
		},
		{
			name: "passing adaptive rule skips",
			pc: withAdaptiveVerdict(Context{
				UserHasMatchingActivatedFactors: true,
				AmfaActive:                      true,
			}, true),
			want: true,
		},
		{
			name: "passing adaptive rule with alternative factor falls through",
			pc: withAdaptiveVerdict(Context{
				UserHasMatchingActivatedFactors: true,
				AlternativeFactorChosen:         true,
				AmfaActive:                      true,
			}, true),
			want: false,
		},
		{
			name: "untriggered step-up still blocks the final branch",
			pc: withStepUpVerdict(Context{
				UserHasMatchingActivatedFactors: true,
				UserStronglyAuth:                true,
				StepUpActive:                    true,
			}, false),
			want: false,
		},
		{
			name: "no trust signal at all",
			pc: Context{
				UserHasMatchingActivatedFactors: true,
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := tt.pc
			if got := e.Decide(&pc); got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

package mfapolicy

import (
	"context"
	"testing"

	"iam-gateway/internal/rule"
)

func TestStepUpEvaluator_Decide(t *testing.T) {
	ctx := context.Background()
	const expr = "input.transaction.amount > 1000"

	tests := []struct {
		name        string
		pc          Context
		ruleVerdict bool
		want        bool
	}{
		{
			name: "strong auth and rule not triggered skips",
			pc: Context{
				StepUpActive:     true,
				StepUpRule:       expr,
				UserStronglyAuth: true,
			},
			ruleVerdict: false,
			want:        true,
		},
		{
			name: "rule triggered forces challenge",
			pc: Context{
				StepUpActive:     true,
				StepUpRule:       expr,
				UserStronglyAuth: true,
			},
			ruleVerdict: true,
			want:        false,
		},
		{
			name: "mfa skipped counts like strong auth",
			pc: Context{
				StepUpActive: true,
				StepUpRule:   expr,
				MfaSkipped:   true,
			},
			ruleVerdict: false,
			want:        true,
		},
		{
			name: "inactive step-up never skips",
			pc: Context{
				UserStronglyAuth: true,
			},
			ruleVerdict: false,
			want:        false,
		},
		{
			name: "no trust signal never skips",
			pc: Context{
				StepUpActive: true,
				StepUpRule:   expr,
			},
			ruleVerdict: false,
			want:        false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := &rule.Script{Verdicts: map[string]bool{expr: tt.ruleVerdict}}
			e := NewStepUpEvaluator(script)
			pc := tt.pc
			if got := e.Decide(ctx, &pc); got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepUpEvaluator_RuleEvaluatedOnlyWhenActive(t *testing.T) {
	const expr = "input.transaction.amount > 1000"
	script := &rule.Script{Verdicts: map[string]bool{expr: true}}
	e := NewStepUpEvaluator(script)

	pc := &Context{StepUpRule: expr}
	e.Decide(context.Background(), pc)
	if n := script.CallCount(expr); n != 0 {
		t.Errorf("rule evaluated %d times with step-up inactive, want 0", n)
	}
}

func TestStepUpEvaluator_VerdictMemoized(t *testing.T) {
	const expr = "input.transaction.amount > 1000"
	script := &rule.Script{Verdicts: map[string]bool{expr: true}}
	e := NewStepUpEvaluator(script)

	pc := &Context{StepUpActive: true, StepUpRule: expr, UserStronglyAuth: true}
	e.Decide(context.Background(), pc)
	e.Decide(context.Background(), pc)
	if n := script.CallCount(expr); n != 1 {
		t.Errorf("rule evaluated %d times, want 1 (memoized)", n)
	}
	if !pc.StepUpRuleVerdict() {
		t.Error("StepUpRuleVerdict = false after evaluation, want cached true")
	}
}

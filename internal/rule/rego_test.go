package rule

import (
	"context"
	"testing"
)

func TestRegoEngine_HealthCheck(t *testing.T) {
	e := NewRegoEngine()
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestRegoEngine_Evaluate(t *testing.T) {
	e := NewRegoEngine()
	ctx := context.Background()

	tests := []struct {
		name       string
		expression string
		evaluable  EvaluableContext
		def        bool
		want       bool
	}{
		{
			name:       "true comparison",
			expression: "input.risk_score < 30",
			evaluable:  EvaluableContext{"risk_score": 10},
			def:        false,
			want:       true,
		},
		{
			// A comparison that does not hold is undefined, not false;
			// it collapses to the caller default.
			name:       "comparison does not hold resolves to default",
			expression: "input.risk_score < 30",
			evaluable:  EvaluableContext{"risk_score": 70},
			def:        false,
			want:       false,
		},
		{
			name:       "false attribute resolves to default",
			expression: "input.trusted_network",
			evaluable:  EvaluableContext{"trusted_network": false},
			def:        false,
			want:       false,
		},
		{
			name:       "empty expression returns default",
			expression: "",
			evaluable:  EvaluableContext{},
			def:        true,
			want:       true,
		},
		{
			name:       "whitespace expression returns default",
			expression: "   ",
			evaluable:  EvaluableContext{},
			def:        false,
			want:       false,
		},
		{
			name:       "parse error returns default",
			expression: "input.risk_score <<< 30",
			evaluable:  EvaluableContext{"risk_score": 10},
			def:        false,
			want:       false,
		},
		{
			name:       "non-boolean result returns default",
			expression: "input.risk_score",
			evaluable:  EvaluableContext{"risk_score": 10},
			def:        true,
			want:       true,
		},
		{
			name:       "nested attribute",
			expression: `input.request.country == "DE"`,
			evaluable:  EvaluableContext{"request": map[string]any{"country": "DE"}},
			def:        false,
			want:       true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(ctx, tt.expression, tt.evaluable, tt.def)
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestRegoEngine_EvaluateNeverPanicsOnNilInput(t *testing.T) {
	e := NewRegoEngine()
	got := e.Evaluate(context.Background(), "input.missing == true", nil, false)
	if got {
		t.Errorf("Evaluate with nil input = true, want default false")
	}
}

package mfapolicy

import (
	"testing"

	clientdomain "iam-gateway/internal/client/domain"
	factordomain "iam-gateway/internal/factor/domain"
	"iam-gateway/internal/session"
	userdomain "iam-gateway/internal/user/domain"
)

// mapCatalog implements Catalog for tests.
type mapCatalog map[string]factordomain.Type

var _ Catalog = mapCatalog(nil)

func (m mapCatalog) TypeOf(id string) (factordomain.Type, bool) {
	t, ok := m[id]
	return t, ok
}

func TestNoFactor(t *testing.T) {
	catalog := mapCatalog{
		"f-otp":      factordomain.TypeOTP,
		"f-sms":      factordomain.TypeSMS,
		"f-recovery": factordomain.TypeRecoveryCode,
	}
	tests := []struct {
		name      string
		factorIDs []string
		want      bool
	}{
		{"nil list", nil, true},
		{"empty list", []string{}, true},
		{"single recovery code", []string{"f-recovery"}, true},
		{"single enforceable factor", []string{"f-otp"}, false},
		{"recovery code among others", []string{"f-recovery", "f-otp"}, false},
		{"single unknown factor", []string{"f-ghost"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoFactor(tt.factorIDs, catalog); got != tt.want {
				t.Errorf("NoFactor(%v) = %v, want %v", tt.factorIDs, got, tt.want)
			}
		})
	}
}

func TestNoFactor_NilCatalog(t *testing.T) {
	if NoFactor([]string{"f-recovery"}, nil) {
		t.Error("NoFactor with nil catalog = true, want false")
	}
	if !NoFactor(nil, nil) {
		t.Error("NoFactor(nil, nil) = false, want true")
	}
}

func TestEndUserEnrolled(t *testing.T) {
	client := &clientdomain.Client{ID: "app", FactorIDs: []string{"f-otp", "f-sms"}}

	t.Run("session marker wins", func(t *testing.T) {
		sess := session.NewMemoryStore()
		sess.SetString(session.KeyEnrolledFactorID, "f-otp")
		if !EndUserEnrolled(sess, &userdomain.User{}, client) {
			t.Error("EndUserEnrolled = false with session marker set")
		}
	})

	t.Run("user enrollment matches client factor", func(t *testing.T) {
		user := &userdomain.User{EnrolledFactors: []factordomain.EnrolledFactor{
			{FactorID: "f-sms", Activated: false},
		}}
		if !EndUserEnrolled(session.NewMemoryStore(), user, client) {
			t.Error("EndUserEnrolled = false for matching enrollment")
		}
	})

	t.Run("enrollment for another client factor", func(t *testing.T) {
		user := &userdomain.User{EnrolledFactors: []factordomain.EnrolledFactor{
			{FactorID: "f-other", Activated: true},
		}}
		if EndUserEnrolled(session.NewMemoryStore(), user, client) {
			t.Error("EndUserEnrolled = true for non-matching enrollment")
		}
	})

	t.Run("no session no user", func(t *testing.T) {
		if EndUserEnrolled(nil, nil, client) {
			t.Error("EndUserEnrolled = true with no data")
		}
	})
}

func TestMfaAlreadySkipped(t *testing.T) {
	skipped := session.NewMemoryStore()
	skipped.SetBool(session.KeyMfaSkipped, true)

	t.Run("no rules and session flag", func(t *testing.T) {
		client := &clientdomain.Client{ID: "app"}
		if !MfaAlreadySkipped(client, skipped) {
			t.Error("MfaAlreadySkipped = false, want true")
		}
	})

	t.Run("step-up rule configured blocks skip", func(t *testing.T) {
		client := &clientdomain.Client{ID: "app", MFASettings: clientdomain.MFASettings{StepUpRule: "input.risk > 50"}}
		if MfaAlreadySkipped(client, skipped) {
			t.Error("MfaAlreadySkipped = true with step-up rule configured")
		}
	})

	t.Run("adaptive rule configured blocks skip", func(t *testing.T) {
		client := &clientdomain.Client{ID: "app", MFASettings: clientdomain.MFASettings{AdaptiveMFARule: "input.risk < 30"}}
		if MfaAlreadySkipped(client, skipped) {
			t.Error("MfaAlreadySkipped = true with adaptive rule configured")
		}
	})

	t.Run("flag unset", func(t *testing.T) {
		client := &clientdomain.Client{ID: "app"}
		if MfaAlreadySkipped(client, session.NewMemoryStore()) {
			t.Error("MfaAlreadySkipped = true without session flag")
		}
	})
}

func TestChallengeAlreadyComplete(t *testing.T) {
	if ChallengeAlreadyComplete(&Context{}) {
		t.Error("ChallengeAlreadyComplete = true on zero context")
	}
	if !ChallengeAlreadyComplete(&Context{MfaChallengeComplete: true}) {
		t.Error("ChallengeAlreadyComplete = false with flag set")
	}
}

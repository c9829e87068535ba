package session

import "testing"

func TestMemoryStore_ZeroValuesForMissingKeys(t *testing.T) {
	s := NewMemoryStore()
	if s.GetBool(KeyMfaSkipped) {
		t.Error("GetBool on missing key = true, want false")
	}
	if got := s.GetString(KeyEnrolledFactorID); got != "" {
		t.Errorf("GetString on missing key = %q, want empty", got)
	}
	if got := s.GetInt64(KeyRememberDeviceConsentUntil); got != 0 {
		t.Errorf("GetInt64 on missing key = %d, want 0", got)
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	s.SetBool(KeyMfaChallengeComplete, true)
	s.SetString(KeyEnrolledFactorID, "factor-otp")
	s.SetInt64(KeyRememberDeviceConsentUntil, 1700000000)

	if !s.GetBool(KeyMfaChallengeComplete) {
		t.Error("GetBool = false after SetBool(true)")
	}
	if got := s.GetString(KeyEnrolledFactorID); got != "factor-otp" {
		t.Errorf("GetString = %q, want %q", got, "factor-otp")
	}
	if got := s.GetInt64(KeyRememberDeviceConsentUntil); got != 1700000000 {
		t.Errorf("GetInt64 = %d, want 1700000000", got)
	}
}

func TestMemoryStore_TypeMismatchReadsZero(t *testing.T) {
	s := NewMemoryStore()
	s.SetString(KeyMfaSkipped, "true")
	if s.GetBool(KeyMfaSkipped) {
		t.Error("GetBool on string value = true, want false")
	}
}

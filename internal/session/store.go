// Package session defines the key/value session surface the MFA policy
// engine reads. The authentication pipeline and device-identification
// middleware stamp these keys before the engine runs.
package session

import "sync"

// Well-known session keys.
const (
	// KeyMfaChallengeComplete is set once the user passed the MFA step this session.
	KeyMfaChallengeComplete = "mfa_challenge_completed"
	// KeyMfaSkipped is set when an upstream signal (e.g. federated SSO) requested MFA bypass.
	KeyMfaSkipped = "mfa_skipped"
	// KeyEnrolledFactorID records a completed enrollment within this session.
	KeyEnrolledFactorID = "enrolled_factor_id"
	// KeyDeviceAlreadyExists is stamped by the device-identification middleware
	// when the device lookup found a trusted match.
	KeyDeviceAlreadyExists = "device_already_exists"
	// KeyDeviceIdentifier holds the device identifier extracted by the
	// device-identification middleware, used for the remembered-device lookup.
	KeyDeviceIdentifier = "device_identifier"
	// KeyAlternativeFactorID marks a user mid-flow choosing a different
	// enrolled factor than the one that would be auto-selected.
	KeyAlternativeFactorID = "alternative_factor_id"
	// KeyStrongAuthCompleted is set after a strong-credential authentication this session.
	KeyStrongAuthCompleted = "strong_auth_completed"
	// KeyPrimaryAuthCompleted is set once the primary authentication stage is complete.
	KeyPrimaryAuthCompleted = "primary_auth_completed"
	// KeyRememberDeviceConsentUntil holds the unix second until which the
	// "remember this device" consent prompt may be honored.
	KeyRememberDeviceConsentUntil = "remember_device_consent_until"
)

// Reader is the read-only session view the policy engine needs.
// Missing keys read as the zero value.
type Reader interface {
	GetBool(key string) bool
	GetString(key string) string
}

// Store is a read/write session. The pipeline writes, the engine reads.
type Store interface {
	Reader
	SetBool(key string, value bool)
	SetString(key, value string)
	SetInt64(key string, value int64)
	GetInt64(key string) int64
}

// MemoryStore is an in-process Store. Safe for concurrent use, though a
// session is normally owned by a single request at a time.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

// GetBool returns the boolean stored at key, or false when absent or not a bool.
func (s *MemoryStore) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.values[key].(bool)
	return v
}

// GetString returns the string stored at key, or "" when absent or not a string.
func (s *MemoryStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.values[key].(string)
	return v
}

// GetInt64 returns the int64 stored at key, or 0 when absent or not an int64.
func (s *MemoryStore) GetInt64(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.values[key].(int64)
	return v
}

func (s *MemoryStore) SetBool(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) SetString(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) SetInt64(key string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

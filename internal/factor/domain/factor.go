package domain

// Type is the kind of authentication factor in the catalog.
type Type string

const (
	TypeOTP          Type = "OTP"
	TypeSMS          Type = "SMS"
	TypeCall         Type = "CALL"
	TypeEmail        Type = "EMAIL"
	TypeRecoveryCode Type = "RECOVERY_CODE"
)

// Factor is a catalog entry a client can configure and a user can enroll in.
type Factor struct {
	ID   string
	Type Type
	Name string
}

// Enforceable reports whether the factor can back an MFA challenge.
// Recovery codes are fallback-only and never enforceable.
func (f *Factor) Enforceable() bool {
	return f.Type != TypeRecoveryCode
}

// EnrolledFactor is a user's enrollment in a catalog factor. Activated is
// false while the enrollment is pending verification.
type EnrolledFactor struct {
	FactorID    string
	ChannelType string
	Activated   bool
}

// CatalogMap is an in-memory factor catalog keyed by factor ID.
type CatalogMap map[string]Type

// TypeOf returns the catalog type for the given factor ID.
func (m CatalogMap) TypeOf(factorID string) (Type, bool) {
	t, ok := m[factorID]
	return t, ok
}

package domain

import (
	"errors"
	"time"

	factordomain "iam-gateway/internal/factor/domain"
)

// User is the core user entity.
type User struct {
	ID              string
	Email           string
	Name            string
	Status          UserStatus
	EnrolledFactors []factordomain.EnrolledFactor
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// HasMatchingFactor reports whether the user owns any enrollment, active or
// not, for one of the given factor IDs.
func (u *User) HasMatchingFactor(factorIDs []string) bool {
	for _, e := range u.EnrolledFactors {
		for _, id := range factorIDs {
			if e.FactorID == id {
				return true
			}
		}
	}
	return false
}

// HasMatchingActivatedFactor is HasMatchingFactor restricted to activated
// enrollments.
func (u *User) HasMatchingActivatedFactor(factorIDs []string) bool {
	for _, e := range u.EnrolledFactors {
		if !e.Activated {
			continue
		}
		for _, id := range factorIDs {
			if e.FactorID == id {
				return true
			}
		}
	}
	return false
}

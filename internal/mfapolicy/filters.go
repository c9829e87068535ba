package mfapolicy

import (
	clientdomain "iam-gateway/internal/client/domain"
	factordomain "iam-gateway/internal/factor/domain"
	"iam-gateway/internal/session"
	userdomain "iam-gateway/internal/user/domain"
)

// Catalog resolves a factor ID to its catalog type.
type Catalog interface {
	TypeOf(factorID string) (factordomain.Type, bool)
}

// NoFactor reports whether the client has no enforceable factor: the factor
// list is empty, or it holds exactly one factor whose catalog type is a
// recovery code. A user who can only present a recovery code has nothing to
// be challenged with, so downstream must not render a challenge.
func NoFactor(factorIDs []string, catalog Catalog) bool {
	if len(factorIDs) == 0 {
		return true
	}
	if len(factorIDs) != 1 || catalog == nil {
		return false
	}
	t, ok := catalog.TypeOf(factorIDs[0])
	return ok && t == factordomain.TypeRecoveryCode
}

// EndUserEnrolled reports whether the session already carries an
// enrolled-factor marker, or the user owns any enrollment matching one of the
// client's configured factors.
func EndUserEnrolled(sess session.Reader, user *userdomain.User, client *clientdomain.Client) bool {
	if sess != nil && sess.GetString(session.KeyEnrolledFactorID) != "" {
		return true
	}
	if user == nil || client == nil {
		return false
	}
	return user.HasMatchingFactor(client.FactorIDs)
}

// MfaAlreadySkipped reports whether the session's bypass flag alone may stand:
// only when the client has neither a step-up nor an adaptive rule configured.
// A client with any rule configured is never skippable by this predicate.
func MfaAlreadySkipped(client *clientdomain.Client, sess session.Reader) bool {
	if client != nil && (client.StepUpActive() || client.AdaptiveActive()) {
		return false
	}
	return sess != nil && sess.GetBool(session.KeyMfaSkipped)
}

// ChallengeAlreadyComplete reports whether the user already passed the MFA
// step this session.
func ChallengeAlreadyComplete(pc *Context) bool {
	return pc.MfaChallengeComplete
}

package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"iam-gateway/internal/audit/domain"
	auditrepo "iam-gateway/internal/audit/repository"
)

// SentinelClientID is the client_id used for audit events that have no client scope.
const SentinelClientID = "_system"

// Audit actions recorded by the challenge decision flow.
const (
	ActionChallengeRequired     = "mfa_challenge_required"
	ActionChallengeSkipped      = "mfa_challenge_skipped"
	ActionDeviceRemembered      = "device_remembered"
	ActionRememberDeviceConsent = "remember_device_consent_stamped"
)

// ResourceMfa is the resource name for MFA decision events.
const ResourceMfa = "mfa"

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, clientID, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

var _ AuditLogger = (*Logger)(nil)

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, clientID, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if clientID == "" {
		clientID = SentinelClientID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}

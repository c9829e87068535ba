// Package service exposes the challenge decision to the authentication
// pipeline: it assembles the per-request policy context from persistence and
// session state, runs the evaluators, and records the outcome.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"iam-gateway/internal/audit"
	clientdomain "iam-gateway/internal/client/domain"
	devicedomain "iam-gateway/internal/device/domain"
	factordomain "iam-gateway/internal/factor/domain"
	"iam-gateway/internal/mfapolicy"
	"iam-gateway/internal/rule"
	"iam-gateway/internal/session"
	"iam-gateway/internal/telemetry"
	telemetrydomain "iam-gateway/internal/telemetry/domain"
	userdomain "iam-gateway/internal/user/domain"
)

// Sentinel errors returned by the challenge service.
var (
	ErrClientNotFound = errors.New("client not found")
	ErrNoDeviceConfig = errors.New("client has no remember-device configuration")
)

// ClientRepo is the minimal client repository needed by the challenge service.
type ClientRepo interface {
	GetByID(ctx context.Context, id string) (*clientdomain.Client, error)
}

// FactorRepo is the minimal factor repository needed by the challenge service.
type FactorRepo interface {
	Catalog(ctx context.Context) (factordomain.CatalogMap, error)
}

// DeviceRepo is the minimal device repository needed by the challenge service.
type DeviceRepo interface {
	GetByUserClientAndIdentifier(ctx context.Context, userID, clientID, identifier string) (*devicedomain.Device, error)
	Save(ctx context.Context, d *devicedomain.Device) error
}

// Assessment is the outcome of one challenge decision.
type Assessment struct {
	// RequireChallenge is true when the user must pass an MFA challenge.
	RequireChallenge bool
	// EnforceableFactor is false when the client has no factor a challenge
	// could be rendered with; downstream must not show a challenge then,
	// regardless of RequireChallenge.
	EnforceableFactor bool
	// DeviceTrust says whether the remember-device consent prompt may be shown.
	DeviceTrust mfapolicy.TrustAssessment
}

// ChallengeService assembles the policy context and runs the decision.
type ChallengeService struct {
	clientRepo ClientRepo
	factorRepo FactorRepo
	deviceRepo DeviceRepo
	decision   *mfapolicy.ChallengeDecision
	auditor    audit.AuditLogger
	emitter    telemetry.EventEmitter
	tracer     trace.Tracer

	// defaultTrustWindow applies when a client's remember-device settings
	// carry no expiration.
	defaultTrustWindow time.Duration
	now                func() time.Time
}

// NewChallengeService returns a ChallengeService with the given dependencies.
// auditor and emitter may be nil; recording is then skipped.
func NewChallengeService(
	clientRepo ClientRepo,
	factorRepo FactorRepo,
	deviceRepo DeviceRepo,
	rules rule.Engine,
	auditor audit.AuditLogger,
	emitter telemetry.EventEmitter,
	defaultTrustWindow time.Duration,
) *ChallengeService {
	return &ChallengeService{
		clientRepo:         clientRepo,
		factorRepo:         factorRepo,
		deviceRepo:         deviceRepo,
		decision:           mfapolicy.NewChallengeDecision(rules),
		auditor:            auditor,
		emitter:            emitter,
		tracer:             otel.Tracer("iam-gateway/mfapolicy"),
		defaultTrustWindow: defaultTrustWindow,
		now:                time.Now,
	}
}

// Assess builds the policy context for one request and runs the challenge
// decision. user may be nil when the pipeline has not resolved one; the
// decision then runs on session facts alone.
func (s *ChallengeService) Assess(
	ctx context.Context,
	sess session.Store,
	user *userdomain.User,
	clientID string,
	evaluable rule.EvaluableContext,
) (*Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "ChallengeService.Assess",
		trace.WithAttributes(attribute.String("client.id", clientID)))
	defer span.End()

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	catalog, err := s.factorRepo.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load factor catalog: %w", err)
	}

	pc, err := s.buildContext(ctx, sess, user, client, evaluable)
	if err != nil {
		return nil, err
	}

	out := &Assessment{
		RequireChallenge:  s.decision.MustChallenge(ctx, pc),
		EnforceableFactor: !mfapolicy.NoFactor(client.FactorIDs, catalog),
		DeviceTrust:       s.decision.RememberDeviceEvaluator().IsSafeToTrust(pc),
	}
	span.SetAttributes(
		attribute.Bool("mfa.require_challenge", out.RequireChallenge),
		attribute.String("mfa.device_trust", out.DeviceTrust.String()),
	)

	s.record(ctx, client.ID, user, out)
	return out, nil
}

// buildContext snapshots every fact the evaluators need for this request.
func (s *ChallengeService) buildContext(
	ctx context.Context,
	sess session.Store,
	user *userdomain.User,
	client *clientdomain.Client,
	evaluable rule.EvaluableContext,
) (*mfapolicy.Context, error) {
	pc := &mfapolicy.Context{
		AmfaActive:                  client.AdaptiveActive(),
		EndUserEnrolled:             mfapolicy.EndUserEnrolled(sess, user, client),
		StepUpActive:                client.StepUpActive(),
		StepUpRule:                  client.MFASettings.StepUpRule,
		AmfaRule:                    client.MFASettings.AdaptiveMFARule,
		DeviceRiskAssessmentEnabled: client.RiskAssessmentEnabled,
		RememberDevice:              client.MFASettings.RememberDevice,
		Evaluable:                   evaluable,
	}
	if user != nil {
		pc.UserHasMatchingFactors = user.HasMatchingFactor(client.FactorIDs)
		pc.UserHasMatchingActivatedFactors = user.HasMatchingActivatedFactor(client.FactorIDs)
	}
	if sess != nil {
		// The raw upstream bypass flag; the evaluators decide what it may
		// override. MfaAlreadySkipped is a separate gate for callers that
		// honor the flag outright on rule-free clients.
		pc.MfaSkipped = sess.GetBool(session.KeyMfaSkipped)
		pc.AlternativeFactorChosen = sess.GetString(session.KeyAlternativeFactorID) != ""
		pc.UserStronglyAuth = sess.GetBool(session.KeyStrongAuthCompleted)
		pc.UserFullyAuthenticated = sess.GetBool(session.KeyPrimaryAuthCompleted)
		pc.MfaChallengeComplete = sess.GetBool(session.KeyMfaChallengeComplete)
		pc.DeviceAlreadyExists = sess.GetBool(session.KeyDeviceAlreadyExists)
	}

	// The middleware flag short-circuits the lookup; otherwise consult the
	// device store with the identifier the middleware extracted.
	if !pc.DeviceAlreadyExists && user != nil && sess != nil {
		identifier := sess.GetString(session.KeyDeviceIdentifier)
		if identifier != "" && s.deviceRepo != nil {
			d, err := s.deviceRepo.GetByUserClientAndIdentifier(ctx, user.ID, client.ID, identifier)
			if err != nil {
				return nil, fmt.Errorf("load device: %w", err)
			}
			pc.DeviceAlreadyExists = d.Remembered(s.now())
		}
	}
	return pc, nil
}

// StampRememberDeviceConsent records in the session until when the
// remember-device consent prompt may be honored, using the client's
// expiration or the service default.
func (s *ChallengeService) StampRememberDeviceConsent(ctx context.Context, sess session.Store, client *clientdomain.Client, userID string) {
	if sess == nil || client == nil {
		return
	}
	window := s.trustWindow(client)
	until := s.now().Add(window).Unix()
	sess.SetInt64(session.KeyRememberDeviceConsentUntil, until)
	if s.auditor != nil {
		s.auditor.LogEvent(ctx, client.ID, userID,
			audit.ActionRememberDeviceConsent, audit.ResourceMfa,
			fmt.Sprintf(`{"consent_until":%d}`, until))
	}
}

// RememberDevice persists a remembered device for the client's configured
// trust window. The pipeline calls this only after IsSafeToTrust returned
// SAFE and the user consented.
func (s *ChallengeService) RememberDevice(
	ctx context.Context,
	user *userdomain.User,
	client *clientdomain.Client,
	identifier string,
) (*devicedomain.Device, error) {
	if client == nil || !client.MFASettings.RememberDevice.Active {
		return nil, ErrNoDeviceConfig
	}
	if user == nil || identifier == "" {
		return nil, errors.New("user and device identifier are required")
	}

	now := s.now()
	d := &devicedomain.Device{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		ClientID:   client.ID,
		Identifier: identifier,
		ExpiresAt:  now.Add(s.trustWindow(client)),
		CreatedAt:  now,
	}
	if err := s.deviceRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save device: %w", err)
	}

	if s.auditor != nil {
		s.auditor.LogEvent(ctx, client.ID, user.ID,
			audit.ActionDeviceRemembered, audit.ResourceMfa,
			fmt.Sprintf(`{"device_id":%q}`, d.ID))
	}
	telemetry.EmitAsync(s.emitter, ctx, &telemetrydomain.DecisionEvent{
		ID:        uuid.New().String(),
		ClientID:  client.ID,
		UserID:    user.ID,
		DeviceID:  d.ID,
		EventType: telemetrydomain.EventDeviceRemembered,
		Source:    "mfapolicy",
		CreatedAt: now,
	})
	return d, nil
}

func (s *ChallengeService) trustWindow(client *clientdomain.Client) time.Duration {
	if secs := client.MFASettings.RememberDevice.ExpirationSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return s.defaultTrustWindow
}

// record writes the best-effort audit entry and telemetry event for one assessment.
func (s *ChallengeService) record(ctx context.Context, clientID string, user *userdomain.User, out *Assessment) {
	userID := ""
	if user != nil {
		userID = user.ID
	}
	action := audit.ActionChallengeSkipped
	eventType := telemetrydomain.EventChallengeSkipped
	if out.RequireChallenge {
		action = audit.ActionChallengeRequired
		eventType = telemetrydomain.EventChallengeRequired
	}
	if s.auditor != nil {
		s.auditor.LogEvent(ctx, clientID, userID, action, audit.ResourceMfa,
			fmt.Sprintf(`{"enforceable_factor":%t,"device_trust":%q}`,
				out.EnforceableFactor, out.DeviceTrust.String()))
	}
	telemetry.EmitAsync(s.emitter, ctx, &telemetrydomain.DecisionEvent{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		UserID:    userID,
		EventType: eventType,
		Source:    "mfapolicy",
		CreatedAt: s.now(),
	})
}

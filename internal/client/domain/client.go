package domain

import (
	"strings"
	"time"
)

// RememberDeviceSettings configures the remember-device trust mechanism for a
// client. The zero value is an inactive settings object; callers substitute it
// when a client has no settings so the value is never absent downstream.
type RememberDeviceSettings struct {
	Active             bool
	SkipRememberDevice bool
	DeviceIdentifierID string
	ExpirationSeconds  int64
}

// MFASettings holds the tenant-configured MFA policy for a client. Rules are
// boolean expressions evaluated by the rule engine; an empty rule means the
// corresponding policy is not configured.
type MFASettings struct {
	StepUpRule      string
	AdaptiveMFARule string
	RememberDevice  RememberDeviceSettings
}

// Client is an OAuth client (application) within a tenant domain.
type Client struct {
	ID                    string
	Name                  string
	FactorIDs             []string
	MFASettings           MFASettings
	RiskAssessmentEnabled bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StepUpActive reports whether a step-up rule is configured.
func (c *Client) StepUpActive() bool {
	return strings.TrimSpace(c.MFASettings.StepUpRule) != ""
}

// AdaptiveActive reports whether an adaptive MFA rule is configured.
func (c *Client) AdaptiveActive() bool {
	return strings.TrimSpace(c.MFASettings.AdaptiveMFARule) != ""
}

package domain

import "time"

// Decision event types.
const (
	EventChallengeRequired = "mfa.challenge_required"
	EventChallengeSkipped  = "mfa.challenge_skipped"
	EventDeviceRemembered  = "mfa.device_remembered"
)

// DecisionEvent is a telemetry event for one challenge decision
// (client-scoped, optional user/device).
type DecisionEvent struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	UserID    string    `json:"user_id,omitempty"`
	DeviceID  string    `json:"device_id,omitempty"`
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	Metadata  []byte    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

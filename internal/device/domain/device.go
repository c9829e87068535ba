package domain

import "time"

// Device is a remembered device for a user on a client, recorded after the
// user consented to skip MFA on this device for a limited window.
type Device struct {
	ID         string
	UserID     string
	ClientID   string
	Identifier string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Remembered reports whether the device trust window is still open at now.
func (d *Device) Remembered(now time.Time) bool {
	return d != nil && now.Before(d.ExpiresAt)
}

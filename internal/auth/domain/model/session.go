package model

import "time"

// Session represents one authenticated device/browser instance, embedded in
// the owning User document.
type Session struct {
	ID           string    `json:"id" bson:"id"`
	Device       string    `json:"device" bson:"device"`
	IP           string    `json:"ip" bson:"ip"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	LastActiveAt time.Time `json:"last_active_at" bson:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at" bson:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionView is a Session decorated for the device-management listing.
type SessionView struct {
	Session `bson:",inline"`
	Current bool `json:"current" bson:"-"`
}

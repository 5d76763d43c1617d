package model

import (
	"fmt"
	"time"
)

// Application statuses, in pipeline order.
const (
	StatusWishlist  = "wishlist"
	StatusApplied   = "applied"
	StatusScreen    = "screen"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusRejected  = "rejected"
)

var validStatuses = map[string]bool{
	StatusWishlist:  true,
	StatusApplied:   true,
	StatusScreen:    true,
	StatusInterview: true,
	StatusOffer:     true,
	StatusRejected:  true,
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// StatusChange records one transition in the application's history.
type StatusChange struct {
	Status    string    `json:"status" bson:"status"`
	ChangedAt time.Time `json:"changedAt" bson:"changed_at"`
}

// JobApplication tracks one application through the hiring pipeline.
type JobApplication struct {
	ID            string         `json:"id" bson:"id"`
	UserID        string         `json:"userId" bson:"user_id"`
	Company       string         `json:"company" bson:"company"`
	Role          string         `json:"role" bson:"role"`
	URL           string         `json:"url,omitempty" bson:"url,omitempty"`
	Status        string         `json:"status" bson:"status"`
	Notes         string         `json:"notes,omitempty" bson:"notes,omitempty"`
	StatusHistory []StatusChange `json:"statusHistory" bson:"status_history"`
	CreatedAt     time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Validate checks required fields and the status enum.
func (a *JobApplication) Validate() error {
	if a.Company == "" {
		return fmt.Errorf("company is required")
	}
	if a.Role == "" {
		return fmt.Errorf("role is required")
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid status: %q", a.Status)
	}
	return nil
}

// Transition moves the application to a new status, appending to the history.
func (a *JobApplication) Transition(status string, at time.Time) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status: %q", status)
	}
	a.Status = status
	a.UpdatedAt = at
	a.StatusHistory = append(a.StatusHistory, StatusChange{Status: status, ChangedAt: at})
	return nil
}

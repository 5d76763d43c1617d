package model

import "time"

// JobPosting is a captured listing, deduplicated per user by URL. Metadata
// holds the raw page attributes the extension scraped.
type JobPosting struct {
	ID          string            `json:"id" bson:"id"`
	UserID      string            `json:"userId" bson:"user_id"`
	URL         string            `json:"url" bson:"url"`
	Title       string            `json:"title" bson:"title"`
	Company     string            `json:"company,omitempty" bson:"company,omitempty"`
	Location    string            `json:"location,omitempty" bson:"location,omitempty"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Source      string            `json:"source,omitempty" bson:"source,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CapturedAt  time.Time         `json:"capturedAt" bson:"captured_at"`
}

package models

import "time"

// FeedMetadata is what the fetcher remembers about the last download of a
// remote feed, used for conditional requests.
type FeedMetadata struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// DelayObservation is one sample of scheduled vs. real-time minutes for a
// trip approaching a stop.
type DelayObservation struct {
	ObservedAt       time.Time
	StopCode         int
	Line             string
	Route            string
	ServiceID        string
	TripID           string
	Running          bool
	ScheduledMinutes int
	RealTimeMinutes  int
}

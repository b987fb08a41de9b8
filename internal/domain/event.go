package domain

import (
	"context"
	"strings"
	"time"
)

// EventType is the kind of a duty event.
type EventType string

const (
	EventStart EventType = "start"
	EventEnd   EventType = "end"
)

// ParseEventType maps an extracted type string to an EventType.
// Matching is case-insensitive and accepts a few synonyms seen in rosters.
func ParseEventType(s string) (EventType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "begin", "report", "checkin", "check-in":
		return EventStart, true
	case "end", "finish", "release", "checkout", "check-out":
		return EventEnd, true
	}
	return "", false
}

// RawEvent is a duty event as returned by the extraction collaborator.
// Every field is untrusted text; see overnight.Normalizer for the validation boundary.
type RawEvent struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
	Label     string `json:"label,omitempty"`
}

// Event is a validated duty event. Timestamp is a naive local wall-clock time stored in UTC.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location"`
	Label     string    `json:"label,omitempty"`
}

// Extractor turns roster document text into best-effort raw events.
type Extractor interface {
	Extract(ctx context.Context, document string) ([]RawEvent, error)
}

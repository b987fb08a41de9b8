package domain

import (
	"context"
	"slices"
	"time"
)

// MatchGroup is the set of crew members sharing a city on a date. It is never persisted.
type MatchGroup struct {
	City    string    `json:"city"`
	Date    time.Time `json:"date"`
	Members []string  `json:"members"`
}

// Significant reports whether the group has at least two distinct members.
func (g MatchGroup) Significant() bool {
	return len(g.Members) >= 2
}

// Recipients returns the members other than trigger.
func (g MatchGroup) Recipients(trigger string) []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m != trigger {
			out = append(out, m)
		}
	}
	return out
}

// Others returns the members other than member, in group order.
func (g MatchGroup) Others(member string) []string {
	return g.Recipients(member)
}

// Has reports whether member belongs to the group.
func (g MatchGroup) Has(member string) bool {
	return slices.Contains(g.Members, member)
}

// DateString formats the group date as YYYY-MM-DD.
func (g MatchGroup) DateString() string {
	return g.Date.Format(DateLayout)
}

// MatchDetector finds the match group for a freshly recorded stay.
type MatchDetector interface {
	Detect(ctx context.Context, stay *Stay) (MatchGroup, error)
}

// MatchPublisher announces significant match groups to downstream consumers.
type MatchPublisher interface {
	PublishMatch(ctx context.Context, group MatchGroup, trigger string) error
}

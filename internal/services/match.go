package services

import (
	"context"
	"fmt"
	"slices"

	"crewmatch/internal/domain"
)

type matchDetector struct {
	stays domain.StayRepository
}

// NewMatchDetector returns a MatchDetector that groups stays by city and check-in date.
func NewMatchDetector(stays domain.StayRepository) domain.MatchDetector {
	return &matchDetector{stays: stays}
}

// Detect returns the group of distinct owners sharing stay's city and date.
// The trigger owner is always a member. A group with one member is not an error;
// callers check Significant.
func (d *matchDetector) Detect(ctx context.Context, stay *domain.Stay) (domain.MatchGroup, error) {
	date := stay.Date()
	group := domain.MatchGroup{City: stay.City, Date: date}

	stays, err := d.stays.List(ctx, domain.ForDate(stay.City, date))
	if err != nil {
		return group, fmt.Errorf("list stays in %s on %s: %w", stay.City, date.Format(domain.DateLayout), err)
	}

	seen := map[string]struct{}{stay.Owner: {}}
	members := []string{stay.Owner}
	for _, s := range stays {
		if s.City != stay.City || !s.Date().Equal(date) {
			continue
		}
		if _, ok := seen[s.Owner]; ok {
			continue
		}
		seen[s.Owner] = struct{}{}
		members = append(members, s.Owner)
	}
	slices.Sort(members)
	group.Members = members
	return group, nil
}

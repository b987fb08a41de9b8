package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"crewmatch/internal/domain"
)

type summaryService struct {
	stays          domain.StayRepository
	resolver       domain.EndpointResolver
	messenger      domain.Messenger
	airports       domain.AirportDirectory
	clock          clockwork.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSummaryService returns the daily digest sender. A nil clock uses real time.
func NewSummaryService(
	stays domain.StayRepository,
	resolver domain.EndpointResolver,
	messenger domain.Messenger,
	airports domain.AirportDirectory,
	clock clockwork.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SummaryService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &summaryService{
		stays:          stays,
		resolver:       resolver,
		messenger:      messenger,
		airports:       airports,
		clock:          clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// SendDailySummary sends the digest for tomorrow.
func (s *summaryService) SendDailySummary(ctx context.Context) (*domain.SummaryReport, error) {
	return s.SendSummaryForDate(ctx, domain.DateOf(s.clock.Now()).AddDate(0, 0, 1))
}

// SendSummaryForDate messages every crew member with a stay on date that shares a
// city with at least one other crew member. Members without shared cities get nothing.
func (s *summaryService) SendSummaryForDate(ctx context.Context, date time.Time) (*domain.SummaryReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	day := domain.DateOf(date)
	report := &domain.SummaryReport{Date: day, Sent: []string{}, NoEndpoint: []string{}, Failed: []domain.DispatchFailure{}}

	stays, err := s.stays.List(ctx, domain.StayFilter{From: day, To: day.AddDate(0, 0, 1)})
	if err != nil {
		return nil, domain.NewStageError(domain.StageStorage, fmt.Errorf("list stays: %w", err))
	}

	crewByCity := make(map[string]map[string]struct{})
	citiesByCrew := make(map[string][]string)
	for _, st := range stays {
		if crewByCity[st.City] == nil {
			crewByCity[st.City] = make(map[string]struct{})
		}
		if _, ok := crewByCity[st.City][st.Owner]; ok {
			continue
		}
		crewByCity[st.City][st.Owner] = struct{}{}
		citiesByCrew[st.Owner] = append(citiesByCrew[st.Owner], st.City)
	}

	owners := make([]string, 0, len(citiesByCrew))
	for owner := range citiesByCrew {
		owners = append(owners, owner)
	}
	slices.Sort(owners)

	for _, owner := range owners {
		var entries []summaryEntry
		for _, city := range citiesByCrew[owner] {
			if n := len(crewByCity[city]); n >= 2 {
				entries = append(entries, summaryEntry{City: city, Count: n})
			}
		}
		if len(entries) == 0 {
			continue
		}
		slices.SortFunc(entries, func(a, b summaryEntry) int { return cmp.Compare(a.City, b.City) })

		endpoint, err := s.resolver.ResolveEndpoint(ctx, owner)
		if err != nil {
			report.Failed = append(report.Failed, domain.DispatchFailure{Recipient: owner, Error: err.Error()})
			continue
		}
		if endpoint == nil {
			report.NoEndpoint = append(report.NoEndpoint, owner)
			continue
		}
		if err := s.messenger.Send(ctx, *endpoint, summaryMessage(day, entries, s.airports)); err != nil {
			s.logger.ErrorContext(ctx, "summary delivery failed", "recipient", owner, "date", day.Format(domain.DateLayout), "error", err)
			report.Failed = append(report.Failed, domain.DispatchFailure{Recipient: owner, Error: err.Error()})
			continue
		}
		report.Sent = append(report.Sent, owner)
	}

	s.logger.InfoContext(ctx, "daily summary sent",
		"date", day.Format(domain.DateLayout),
		"sent", len(report.Sent),
		"no_endpoint", len(report.NoEndpoint),
		"failed", len(report.Failed),
	)
	return report, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
	"crewmatch/internal/observability"
	"crewmatch/internal/overnight"
)

// StayDeps are the collaborators of the stay service.
// Extractor and Publisher may be nil.
type StayDeps struct {
	Stays      domain.StayRepository
	Crew       domain.CrewRepository
	Extractor  domain.Extractor
	Airports   domain.AirportValidator
	Normalizer *overnight.Normalizer
	Calculator *overnight.Calculator
	Merger     *overnight.Merger
	Matcher    domain.MatchDetector
	Dispatcher domain.NotificationDispatcher
	Publisher  domain.MatchPublisher
	Metrics    *observability.Metrics
	Logger     *slog.Logger
	Timeout    time.Duration
}

type stayService struct {
	StayDeps
}

// NewStayService returns the roster processing and stay recording service.
func NewStayService(deps StayDeps) domain.StayService {
	return &stayService{StayDeps: deps}
}

func (s *stayService) ProcessDocument(ctx context.Context, owner, document string) (*domain.RosterResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	owner = normalizeCrewID(owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(document) == "" {
		return nil, fmt.Errorf("%w: document is empty", domain.ErrInvalidInput)
	}
	if s.Extractor == nil {
		return nil, domain.NewStageError(domain.StageExtraction, errors.New("no extractor configured"))
	}

	start := time.Now()
	raw, err := s.Extractor.Extract(ctx, document)
	s.Metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.Metrics.ExtractionErrors.Inc()
		return nil, domain.NewStageError(domain.StageExtraction, err)
	}
	return s.process(ctx, owner, raw)
}

func (s *stayService) ProcessEvents(ctx context.Context, owner string, events []domain.RawEvent) (*domain.RosterResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	owner = normalizeCrewID(owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	return s.process(ctx, owner, events)
}

// process runs normalize -> calculate -> merge and accepts every resulting stay.
// On a storage or match failure the stays accepted so far are returned with the error.
func (s *stayService) process(ctx context.Context, owner string, raw []domain.RawEvent) (*domain.RosterResult, error) {
	runID := uuid.NewString()
	logger := s.Logger.With("run_id", runID, "owner", owner)
	result := &domain.RosterResult{
		RunID:          runID,
		EventsReceived: len(raw),
		Stays:          []*domain.Stay{},
		Matches:        []domain.MatchGroup{},
	}

	events, dropped := s.Normalizer.Normalize(raw)
	s.Metrics.EventsReceived.Add(float64(len(raw)))
	s.Metrics.EventsDropped.Add(float64(dropped))
	result.EventsAccepted = len(events)

	homeBase, err := s.homeBase(ctx, owner)
	if err != nil {
		return result, domain.NewStageError(domain.StageStorage, err)
	}

	stays := s.Merger.Merge(s.Calculator.Calculate(owner, homeBase, events))
	if len(stays) == 0 {
		result.NoStays = true
		logger.InfoContext(ctx, "no stays produced", "events_received", len(raw), "events_accepted", len(events))
		return result, nil
	}

	for _, stay := range stays {
		outcome, err := s.accept(ctx, logger, stay)
		if outcome != nil {
			result.Stays = append(result.Stays, outcome.Stay)
			if outcome.Match != nil {
				result.Matches = append(result.Matches, *outcome.Match)
			}
			result.Notifications.Merge(outcome.Notifications)
		}
		if err != nil {
			result.Partial = true
			return result, err
		}
	}
	result.Partial = result.Notifications.HasFailures()

	logger.InfoContext(ctx, "roster processed",
		"events_received", len(raw),
		"events_accepted", len(events),
		"stays", len(result.Stays),
		"matches", len(result.Matches),
		"notified", len(result.Notifications.Sent),
		"failed", len(result.Notifications.Failed),
	)
	return result, nil
}

// RecordStay validates a manually entered stay against the same rules as inferred
// stays and accepts it.
func (s *stayService) RecordStay(ctx context.Context, stay *domain.Stay) (*domain.StayOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if stay == nil {
		return nil, fmt.Errorf("%w: stay is required", domain.ErrInvalidInput)
	}
	stay.Owner = normalizeCrewID(stay.Owner)
	stay.City = airports.Normalize(stay.City)
	if stay.Owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if !s.Airports.IsRecognized(stay.City) {
		return nil, fmt.Errorf("%w: unrecognized city %q", domain.ErrInvalidInput, stay.City)
	}
	if !stay.CheckOut.After(stay.CheckIn) {
		return nil, fmt.Errorf("%w: check_out must be after check_in", domain.ErrInvalidInput)
	}
	if minRest := s.Calculator.Threshold(); stay.Duration() < minRest {
		return nil, fmt.Errorf("%w: rest of %s is shorter than the overnight minimum of %s", domain.ErrInvalidInput, stay.Duration(), minRest)
	}
	homeBase, err := s.homeBase(ctx, stay.Owner)
	if err != nil {
		return nil, domain.NewStageError(domain.StageStorage, err)
	}
	if homeBase != "" && homeBase == stay.City {
		return nil, fmt.Errorf("%w: %s is the home base", domain.ErrInvalidInput, stay.City)
	}

	return s.accept(ctx, s.Logger.With("owner", stay.Owner), stay)
}

func (s *stayService) ListStays(ctx context.Context, owner string, params domain.PaginationParams) ([]*domain.Stay, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	filter := domain.StayFilter{Owner: normalizeCrewID(owner)}
	total, err := s.Stays.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count stays: %w", err)
	}
	stays, err := s.Stays.List(ctx, filter.Page(params))
	if err != nil {
		return nil, 0, fmt.Errorf("list stays: %w", err)
	}
	if stays == nil {
		stays = []*domain.Stay{}
	}
	return stays, total, nil
}

// accept persists stay, detects its match group, publishes it and notifies the
// other members. The returned outcome is non-nil once the stay is stored.
func (s *stayService) accept(ctx context.Context, logger *slog.Logger, stay *domain.Stay) (*domain.StayOutcome, error) {
	if err := s.Stays.Create(ctx, stay); err != nil {
		return nil, domain.NewStageError(domain.StageStorage, fmt.Errorf("create stay: %w", err))
	}
	s.Metrics.StaysRecorded.Inc()
	outcome := &domain.StayOutcome{Stay: stay}

	group, err := s.Matcher.Detect(ctx, stay)
	if err != nil {
		return outcome, domain.NewStageError(domain.StageMatch, err)
	}
	if !group.Significant() {
		return outcome, nil
	}
	s.Metrics.MatchesFound.Inc()
	outcome.Match = &group

	if s.Publisher != nil {
		if err := s.Publisher.PublishMatch(ctx, group, stay.Owner); err != nil {
			logger.WarnContext(ctx, "publish match failed", "city", group.City, "date", group.DateString(), "error", err)
		}
	}

	outcome.Notifications = s.Dispatcher.Dispatch(ctx, group, stay.Owner)
	logger.InfoContext(ctx, "match detected",
		"city", group.City,
		"date", group.DateString(),
		"members", len(group.Members),
		"notified", len(outcome.Notifications.Sent),
	)
	return outcome, nil
}

// homeBase returns the owner's configured home base, or "" when unknown.
func (s *stayService) homeBase(ctx context.Context, owner string) (string, error) {
	m, err := s.Crew.GetByID(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get crew member: %w", err)
	}
	return airports.Normalize(m.HomeBase), nil
}

func normalizeCrewID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

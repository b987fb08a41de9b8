package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
)

type crewService struct {
	crew           domain.CrewRepository
	airports       domain.AirportValidator
	contextTimeout time.Duration
}

// NewCrewService returns a CrewService backed by the given repository.
func NewCrewService(crew domain.CrewRepository, airports domain.AirportValidator, timeout time.Duration) domain.CrewService {
	return &crewService{crew: crew, airports: airports, contextTimeout: timeout}
}

// GetProfile returns the crew profile, or an empty one for a crew member who has not configured anything.
func (s *crewService) GetProfile(ctx context.Context, id string) (*domain.CrewMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id = normalizeCrewID(id)
	m, err := s.crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CrewMember{ID: id}, nil
		}
		return nil, fmt.Errorf("get crew member: %w", err)
	}
	return m, nil
}

// SetHomeBase sets or, with an empty code, clears the home base.
func (s *crewService) SetHomeBase(ctx context.Context, id, homeBase string) (*domain.CrewMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id = normalizeCrewID(id)
	if id == "" {
		return nil, fmt.Errorf("%w: crew id is required", domain.ErrInvalidInput)
	}
	code := airports.Normalize(homeBase)
	if code != "" && !s.airports.IsRecognized(code) {
		return nil, fmt.Errorf("%w: unrecognized home base %q", domain.ErrInvalidInput, code)
	}
	return s.crew.SetHomeBase(ctx, id, code)
}

func (s *crewService) SetEmailOptIn(ctx context.Context, id string, optIn bool) (*domain.CrewMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id = normalizeCrewID(id)
	if optIn && !emailRegexp.MatchString(id) {
		return nil, fmt.Errorf("%w: email notifications need an email identity", domain.ErrInvalidInput)
	}
	return s.crew.SetEmailOptIn(ctx, id, optIn)
}

// LinkTelegram stores the chat that receives the crew member's notifications.
func (s *crewService) LinkTelegram(ctx context.Context, id, chatID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id = normalizeCrewID(id)
	chatID = strings.TrimSpace(chatID)
	if id == "" || chatID == "" {
		return fmt.Errorf("%w: crew id and chat id are required", domain.ErrInvalidInput)
	}
	return s.crew.LinkTelegramChat(ctx, id, chatID)
}

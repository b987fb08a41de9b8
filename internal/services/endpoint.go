package services

import (
	"context"
	"errors"
	"regexp"

	"crewmatch/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type crewEndpointResolver struct {
	crew domain.CrewRepository
}

// NewEndpointResolver resolves endpoints from crew profiles. A linked Telegram chat
// wins over email; email is used only when the crew member opted in and their ID is an address.
func NewEndpointResolver(crew domain.CrewRepository) domain.EndpointResolver {
	return &crewEndpointResolver{crew: crew}
}

func (r *crewEndpointResolver) ResolveEndpoint(ctx context.Context, crewID string) (*domain.Endpoint, error) {
	m, err := r.crew.GetByID(ctx, crewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if m.TelegramChatID != "" {
		return &domain.Endpoint{Channel: domain.ChannelTelegram, Address: m.TelegramChatID}, nil
	}
	if m.EmailOptIn && emailRegexp.MatchString(m.ID) {
		return &domain.Endpoint{Channel: domain.ChannelEmail, Address: m.ID}, nil
	}
	return nil, nil
}

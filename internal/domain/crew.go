package domain

import (
	"context"
	"time"
)

// CrewMember is a crew identity with its notification preferences.
// swagger:model CrewMember
type CrewMember struct {
	ID             string    `json:"id"`
	HomeBase       string    `json:"home_base,omitempty"`
	TelegramChatID string    `json:"telegram_chat_id,omitempty"`
	EmailOptIn     bool      `json:"email_opt_in"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CrewRepository defines storage for crew profiles.
type CrewRepository interface {
	GetByID(ctx context.Context, id string) (*CrewMember, error)
	SetHomeBase(ctx context.Context, id, homeBase string) (*CrewMember, error)
	LinkTelegramChat(ctx context.Context, id, chatID string) error
	SetEmailOptIn(ctx context.Context, id string, optIn bool) (*CrewMember, error)
}

// CrewService defines the business logic for crew profiles.
type CrewService interface {
	GetProfile(ctx context.Context, id string) (*CrewMember, error)
	SetHomeBase(ctx context.Context, id, homeBase string) (*CrewMember, error)
	SetEmailOptIn(ctx context.Context, id string, optIn bool) (*CrewMember, error)
	LinkTelegram(ctx context.Context, id, chatID string) error
}

// TokenVerifier verifies a token and returns the authenticated crew ID.
type TokenVerifier interface {
	Verify(token string) (crewID string, err error)
}

// TokenIssuer issues tokens for a crew ID.
type TokenIssuer interface {
	Issue(crewID string, expiry time.Duration) (string, error)
}

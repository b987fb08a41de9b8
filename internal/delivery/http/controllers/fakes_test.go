package controllers

import (
	"context"
	"io"
	"log/slog"

	"crewmatch/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStayService implements domain.StayService for handler tests.
type fakeStayService struct {
	result       *domain.RosterResult
	outcome      *domain.StayOutcome
	stays        []*domain.Stay
	total        int
	err          error
	lastOwner    string
	lastDocument string
	lastEvents   []domain.RawEvent
	lastStay     *domain.Stay
	lastParams   domain.PaginationParams
}

func (f *fakeStayService) ProcessDocument(ctx context.Context, owner, document string) (*domain.RosterResult, error) {
	f.lastOwner, f.lastDocument = owner, document
	return f.result, f.err
}

func (f *fakeStayService) ProcessEvents(ctx context.Context, owner string, events []domain.RawEvent) (*domain.RosterResult, error) {
	f.lastOwner, f.lastEvents = owner, events
	return f.result, f.err
}

func (f *fakeStayService) RecordStay(ctx context.Context, stay *domain.Stay) (*domain.StayOutcome, error) {
	f.lastStay = stay
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeStayService) ListStays(ctx context.Context, owner string, params domain.PaginationParams) ([]*domain.Stay, int, error) {
	f.lastOwner, f.lastParams = owner, params
	return f.stays, f.total, f.err
}

// fakeCrewService implements domain.CrewService for handler tests.
type fakeCrewService struct {
	member     *domain.CrewMember
	err        error
	lastID     string
	lastHome   string
	lastOptIn  *bool
	linkedID   string
	linkedChat string
}

func (f *fakeCrewService) GetProfile(ctx context.Context, id string) (*domain.CrewMember, error) {
	f.lastID = id
	return f.member, f.err
}

func (f *fakeCrewService) SetHomeBase(ctx context.Context, id, homeBase string) (*domain.CrewMember, error) {
	f.lastID, f.lastHome = id, homeBase
	return f.member, f.err
}

func (f *fakeCrewService) SetEmailOptIn(ctx context.Context, id string, optIn bool) (*domain.CrewMember, error) {
	f.lastID, f.lastOptIn = id, &optIn
	return f.member, f.err
}

func (f *fakeCrewService) LinkTelegram(ctx context.Context, id, chatID string) error {
	f.linkedID, f.linkedChat = id, chatID
	return f.err
}

// fakeReplier records Telegram replies.
type fakeReplier struct {
	chatID string
	text   string
}

func (f *fakeReplier) SendText(ctx context.Context, chatID, text string) error {
	f.chatID, f.text = chatID, text
	return nil
}

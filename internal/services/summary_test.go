package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmatch/internal/domain"
)

func TestSummaryService_SendDailySummary(t *testing.T) {
	ctx := context.Background()
	stays := newFakeStayRepo(
		domain.NewStay("alice", "SSA", ts("2025-03-11T18:00"), ts("2025-03-12T08:00")),
		domain.NewStay("bob", "SSA", ts("2025-03-11T19:00"), ts("2025-03-12T09:00")),
		domain.NewStay("carol", "GIG", ts("2025-03-11T19:00"), ts("2025-03-12T09:00")),
		domain.NewStay("dave", "SSA", ts("2025-03-11T20:00"), ts("2025-03-12T10:00")),
		// other days are ignored
		domain.NewStay("carol", "SSA", ts("2025-03-10T19:00"), ts("2025-03-11T09:00")),
	)
	crew := newFakeCrewRepo(telegramCrew("alice"), telegramCrew("bob"), telegramCrew("carol"))
	messenger := newFakeMessenger()
	messenger.failFor["chat-bob"] = errors.New("blocked by user")
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC))

	svc := NewSummaryService(stays, NewEndpointResolver(crew), messenger, testAirports(), clock, discardLogger(), 5*time.Second)
	report, err := svc.SendDailySummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-11", report.Date.Format(domain.DateLayout))
	assert.Equal(t, []string{"alice"}, report.Sent)
	assert.Equal(t, []string{"dave"}, report.NoEndpoint)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "bob", report.Failed[0].Recipient)

	msgs := messenger.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "chat-alice", msgs[0].Endpoint.Address)
	assert.Equal(t, "Overnight summary for 2025-03-11", msgs[0].Message.Subject)
	assert.Contains(t, msgs[0].Message.Lines, "📍 SSA (Salvador) – 3 crew")
	assert.Equal(t, 0, messenger.sentTo("chat-carol"), "carol is alone in GIG")
}

func TestSummaryService_SendSummaryForDate_StorageError(t *testing.T) {
	stays := newFakeStayRepo()
	stays.listErr = errors.New("timeout")
	svc := NewSummaryService(stays, NewEndpointResolver(newFakeCrewRepo()), newFakeMessenger(), testAirports(),
		clockwork.NewFakeClock(), discardLogger(), time.Second)

	_, err := svc.SendSummaryForDate(context.Background(), ts("2025-03-11T00:00"))
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
}

func TestSummaryService_NoSharedCities(t *testing.T) {
	stays := newFakeStayRepo(
		domain.NewStay("alice", "SSA", ts("2025-03-11T18:00"), ts("2025-03-12T08:00")),
		domain.NewStay("alice", "SSA", ts("2025-03-11T21:00"), ts("2025-03-12T10:00")),
	)
	messenger := newFakeMessenger()
	svc := NewSummaryService(stays, NewEndpointResolver(newFakeCrewRepo(telegramCrew("alice"))), messenger, testAirports(),
		nil, discardLogger(), time.Second)

	report, err := svc.SendSummaryForDate(context.Background(), ts("2025-03-11T12:00"))
	require.NoError(t, err)
	assert.Empty(t, report.Sent)
	assert.Empty(t, messenger.messages())
}
